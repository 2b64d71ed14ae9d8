package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/bot"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/usecases"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	filters     *usecases.FilterService
	trackLoader *usecases.TrackLoaderService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	filters *usecases.FilterService,
	trackLoader *usecases.TrackLoaderService,
) *CommandHandlers {
	return &CommandHandlers{
		filters:     filters,
		trackLoader: trackLoader,
	}
}

// HandleFilter handles the /filter command.
func (h *CommandHandlers) HandleFilter(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "preset":
		return h.handleFilterPreset(r, guildID, subCmd.Options)
	case "clear":
		return h.handleFilterClear(r, guildID)
	case "show":
		return h.handleFilterShow(r, guildID)
	default:
		return respondError(r, "Unknown subcommand")
	}
}

func (h *CommandHandlers) handleFilterPreset(
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	var name string
	for _, opt := range options {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	_, err := h.filters.ApplyPreset(context.Background(), usecases.ApplyPresetInput{
		GuildID: guildID,
		Preset:  name,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrUnknownPreset) {
			return respondError(r, fmt.Sprintf("Unknown preset **%s**.", name))
		}
		return respondError(r, err.Error())
	}

	return respondSuccess(r, fmt.Sprintf("Applied the **%s** filter.", name))
}

func (h *CommandHandlers) handleFilterClear(r bot.Responder, guildID snowflake.ID) error {
	if _, err := h.filters.Clear(context.Background(), usecases.ClearFiltersInput{
		GuildID: guildID,
	}); err != nil {
		return respondError(r, err.Error())
	}

	return respondSuccess(r, "Cleared all filters.")
}

func (h *CommandHandlers) handleFilterShow(r bot.Responder, guildID snowflake.ID) error {
	output, err := h.filters.Current(context.Background(), usecases.CurrentFiltersInput{
		GuildID: guildID,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrNoSession) {
			return respondSuccess(r, "No filters applied.")
		}
		return respondError(r, err.Error())
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Filters",
					Description: describeFilters(output),
					Color:       colorSuccess,
				},
			},
		},
	})
}

// HandleVolume handles the /volume command.
func (h *CommandHandlers) HandleVolume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	level := -1
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "level" {
			level = int(opt.IntValue())
		}
	}

	output, err := h.filters.SetVolume(context.Background(), usecases.SetVolumeInput{
		GuildID: guildID,
		Volume:  level,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondSuccess(r, fmt.Sprintf("Volume set to **%d%%**.", output.Volume))
}

// HandleSearch handles the /search command.
func (h *CommandHandlers) HandleSearch(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var query, source string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "query":
			query = opt.StringValue()
		case "source":
			source = opt.StringValue()
		}
	}

	output, err := h.trackLoader.Search(context.Background(), usecases.SearchInput{
		Query:     query,
		Source:    usecases.ParseSearchSource(source),
		Requester: requesterOf(i),
	})
	if err != nil {
		if errors.Is(err, usecases.ErrNoResults) {
			return respondError(r, fmt.Sprintf("No results for **%s**.", query))
		}
		return respondError(r, err.Error())
	}

	var sb strings.Builder
	if output.IsPlaylist {
		fmt.Fprintf(&sb, "Playlist **%s** (%d tracks)\n", output.PlaylistName, output.TotalTracks)
		if output.Preview != nil {
			sb.WriteString("Starts with ")
			writeTrackLine(&sb, output.Preview)
		}
	} else {
		for idx, track := range output.Tracks {
			fmt.Fprintf(&sb, "%d\\. ", idx+1)
			writeTrackLine(&sb, track)
		}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Search results",
					Description: sb.String(),
					Color:       colorSuccess,
				},
			},
		},
	})
}

func requesterOf(i *discordgo.InteractionCreate) usecases.Requester {
	var user *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		user = i.Member.User
	case i.User != nil:
		user = i.User
	default:
		return usecases.Requester{}
	}

	id, _ := snowflake.Parse(user.ID)
	return usecases.Requester{
		ID:        id,
		Name:      user.Username,
		AvatarURL: user.AvatarURL(""),
	}
}

// Response helpers.

func respondSuccess(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}

// writeTrackLine writes a single track line to the string builder.
func writeTrackLine(sb *strings.Builder, track *usecases.Track) {
	if track.URI != "" {
		fmt.Fprintf(sb, "[%s](%s) - %s `%s`\n", track.Title, track.URI, track.Author, track.FormattedDuration())
	} else {
		fmt.Fprintf(sb, "**%s** - %s `%s`\n", track.Title, track.Author, track.FormattedDuration())
	}
}

// describeFilters lists the volume and every active filter group.
func describeFilters(output *usecases.FilterOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Volume: **%d%%**\n", output.Volume)

	cfg := output.Filters
	if cfg.IsDefault() {
		sb.WriteString("No filters applied.")
		return sb.String()
	}

	if len(cfg.Equalizer) > 0 {
		fmt.Fprintf(&sb, "Equalizer: %d bands\n", len(cfg.Equalizer))
	}
	if k := cfg.Karaoke; k != nil {
		fmt.Fprintf(&sb, "Karaoke: %s\n", joinOptions(
			"level", k.Level, "mono level", k.MonoLevel,
			"band", k.FilterBand, "width", k.FilterWidth,
		))
	}
	if t := cfg.Timescale; t != nil {
		fmt.Fprintf(&sb, "Timescale: %s\n", joinOptions(
			"speed", t.Speed, "pitch", t.Pitch, "rate", t.Rate,
		))
	}
	if v := cfg.Vibrato; v != nil {
		fmt.Fprintf(&sb, "Vibrato: %s\n", joinOptions(
			"frequency", v.Frequency, "depth", v.Depth,
		))
	}
	if rot := cfg.Rotation; rot != nil {
		fmt.Fprintf(&sb, "Rotation: %s\n", joinOptions("hz", rot.RotationHz))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// joinOptions formats name/value pairs, skipping unset values.
func joinOptions(pairs ...any) string {
	var parts []string
	for idx := 0; idx+1 < len(pairs); idx += 2 {
		value, _ := pairs[idx+1].(*float64)
		if value == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.2f", pairs[idx], *value))
	}
	if len(parts) == 0 {
		return "defaults"
	}
	return strings.Join(parts, ", ")
}
