package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/usecases"
)

// EventHandlers handles Discord gateway events for the music player.
type EventHandlers struct {
	botID   snowflake.ID
	filters *usecases.FilterService
}

// NewEventHandlers creates a new EventHandlers.
func NewEventHandlers(botID snowflake.ID, filters *usecases.FilterService) *EventHandlers {
	return &EventHandlers{
		botID:   botID,
		filters: filters,
	}
}

// HandleVoiceStateUpdate ends the guild's session when the bot leaves voice.
func (h *EventHandlers) HandleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	// Only handle updates for the bot itself
	if event.UserID != h.botID.String() || event.ChannelID != "" {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	h.filters.EndSession(context.Background(), guildID)
	slog.Debug("ended playback session", "guild", guildID)
}
