package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/usecases"
)

// Commands returns all slash commands for the music player module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "filter",
			Description: "Manage audio filters",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "preset",
					Description: "Apply a filter preset",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Preset to apply",
							Required:    true,
							Choices:     presetChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Remove all filters",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the active filters",
				},
			},
		},
		{
			Name:        "volume",
			Description: "Set the playback volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Volume in percent",
					Required:    true,
					MinValue:    floatPtr(0),
					MaxValue:    1000,
				},
			},
		},
		{
			Name:        "search",
			Description: "Search for tracks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "query",
					Description:  "URL or search term",
					Required:     true,
					Autocomplete: true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "source",
					Description: "Where to search (defaults to the configured source)",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "YouTube", Value: "ytsearch"},
						{Name: "YouTube Music", Value: "ytmsearch"},
						{Name: "SoundCloud", Value: "scsearch"},
					},
				},
			},
		},
	}
}

func presetChoices() []*discordgo.ApplicationCommandOptionChoice {
	presets := usecases.FilterPresets()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(presets))
	for i, preset := range presets {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: preset, Value: preset}
	}
	return choices
}

func floatPtr(f float64) *float64 {
	return &f
}
