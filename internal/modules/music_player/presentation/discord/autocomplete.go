package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/lavasync/internal/bot"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/usecases"
)

// minAutocompleteQuery is the shortest query that triggers a search.
const minAutocompleteQuery = 2

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	trackLoader *usecases.TrackLoaderService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(trackLoader *usecases.TrackLoaderService) *AutocompleteHandler {
	return &AutocompleteHandler{
		trackLoader: trackLoader,
	}
}

// HandleSearch handles autocomplete for the search command.
func (h *AutocompleteHandler) HandleSearch(i *discordgo.InteractionCreate, r bot.Responder) {
	var query, source string
	for _, opt := range i.ApplicationCommandData().Options {
		switch {
		case opt.Name == "query" && opt.Focused:
			query = opt.StringValue()
		case opt.Name == "source":
			source = opt.StringValue()
		}
	}

	// Don't search for very short queries
	if len([]rune(query)) < minAutocompleteQuery {
		respondChoices(r, nil)
		return
	}

	output, err := h.trackLoader.Search(context.Background(), usecases.SearchInput{
		Query:  query,
		Source: usecases.ParseSearchSource(source),
	})
	if err != nil {
		slog.Debug("autocomplete search failed", "query", query, "error", err)
		respondChoices(r, nil)
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(output.Tracks)+1)

	if output.IsPlaylist {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("📋 %s (%d tracks)", output.PlaylistName, output.TotalTracks), 100),
			Value: query,
		})
	} else {
		for _, track := range output.Tracks {
			if track.URI == "" {
				continue
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  truncate(fmt.Sprintf("🎵 %s - %s", track.Title, track.Author), 100),
				Value: truncate(track.URI, 100),
			})
		}
	}

	respondChoices(r, choices)
}

func respondChoices(r bot.Responder, choices []*discordgo.ApplicationCommandOptionChoice) {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	}); err != nil {
		slog.Warn("failed to respond to autocomplete", "error", err)
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
