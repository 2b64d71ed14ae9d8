package discord

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/bot"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
	"github.com/sglre6355/lavasync/internal/modules/music_player/infrastructure"
)

type fakeBackend struct {
	result  *domain.LoadResult
	err     error
	queries []string
}

func (f *fakeBackend) Resolve(
	_ context.Context,
	query string,
	_ domain.SearchSource,
	_ domain.Requester,
) (*domain.LoadResult, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

type fakeDispatcher struct {
	mu        sync.Mutex
	updates   []ports.PlayerUpdate
	forgotten []snowflake.ID
}

func (f *fakeDispatcher) Dispatch(_ snowflake.ID, update ports.PlayerUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
}

func (f *fakeDispatcher) Forget(guildID snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, guildID)
}

type testHandlers struct {
	commands   *CommandHandlers
	backend    *fakeBackend
	dispatcher *fakeDispatcher
}

func newTestHandlers() *testHandlers {
	backend := &fakeBackend{}
	dispatcher := &fakeDispatcher{}
	filters := usecases.NewFilterService(infrastructure.NewMemoryRepository(), dispatcher, domain.DefaultVolume)
	trackLoader := usecases.NewTrackLoaderService(backend, domain.SourceYouTube)

	return &testHandlers{
		commands:   NewCommandHandlers(filters, trackLoader),
		backend:    backend,
		dispatcher: dispatcher,
	}
}

func newInteraction(
	guildID string,
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: guildID,
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "123", Username: "TestUser"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	// integers arrive as JSON numbers
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func subcommand(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: options,
	}
}

func responseEmbed(t *testing.T, responder *bot.MockResponder) *discordgo.MessageEmbed {
	t.Helper()

	if responder.LastResponse == nil {
		t.Fatal("expected response, got nil")
	}
	data := responder.LastResponse.Data
	if data == nil || len(data.Embeds) != 1 {
		t.Fatalf("expected one embed, got %+v", data)
	}
	return data.Embeds[0]
}

func expectSuccess(t *testing.T, responder *bot.MockResponder, description string) {
	t.Helper()

	embed := responseEmbed(t, responder)
	if embed.Color != colorSuccess {
		t.Errorf("expected success color, got %#x", embed.Color)
	}
	if embed.Description != description {
		t.Errorf("expected description %q, got %q", description, embed.Description)
	}
}

func expectError(t *testing.T, responder *bot.MockResponder, description string) {
	t.Helper()

	embed := responseEmbed(t, responder)
	if embed.Color != colorError || embed.Title != "Error" {
		t.Errorf("expected error embed, got %q/%#x", embed.Title, embed.Color)
	}
	if embed.Description != description {
		t.Errorf("expected description %q, got %q", description, embed.Description)
	}
}

func TestCommandHandlers_HandleFilter_Preset(t *testing.T) {
	h := newTestHandlers()
	responder := &bot.MockResponder{}

	i := newInteraction("1", "filter", subcommand("preset", stringOption("name", "nightcore")))
	if err := h.commands.HandleFilter(nil, i, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectSuccess(t, responder, "Applied the **nightcore** filter.")
	if len(h.dispatcher.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(h.dispatcher.updates))
	}
	if h.dispatcher.updates[0].Filters.Timescale == nil {
		t.Error("expected timescale in update")
	}
}

func TestCommandHandlers_HandleFilter_UnknownPreset(t *testing.T) {
	h := newTestHandlers()
	responder := &bot.MockResponder{}

	i := newInteraction("1", "filter", subcommand("preset", stringOption("name", "loud")))
	if err := h.commands.HandleFilter(nil, i, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectError(t, responder, "Unknown preset **loud**.")
	if len(h.dispatcher.updates) != 0 {
		t.Errorf("expected no update, got %d", len(h.dispatcher.updates))
	}
}

func TestCommandHandlers_HandleFilter_Clear(t *testing.T) {
	h := newTestHandlers()
	responder := &bot.MockResponder{}

	i := newInteraction("1", "filter", subcommand("clear"))
	if err := h.commands.HandleFilter(nil, i, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectSuccess(t, responder, "Cleared all filters.")
	if len(h.dispatcher.updates) != 1 {
		t.Errorf("expected 1 update, got %d", len(h.dispatcher.updates))
	}
}

func TestCommandHandlers_HandleFilter_Show(t *testing.T) {
	h := newTestHandlers()
	responder := &bot.MockResponder{}

	show := newInteraction("1", "filter", subcommand("show"))
	if err := h.commands.HandleFilter(nil, show, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectSuccess(t, responder, "No filters applied.")

	preset := newInteraction("1", "filter", subcommand("preset", stringOption("name", "8d")))
	if err := h.commands.HandleFilter(nil, preset, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := h.commands.HandleFilter(nil, show, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	embed := responseEmbed(t, responder)
	if embed.Title != "Filters" {
		t.Errorf("expected title %q, got %q", "Filters", embed.Title)
	}
	expected := "Volume: **100%**\nRotation: hz 0.20"
	if embed.Description != expected {
		t.Errorf("expected description %q, got %q", expected, embed.Description)
	}
}

func TestCommandHandlers_HandleFilter_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		interaction *discordgo.InteractionCreate
		want        string
	}{
		{
			name:        "no subcommand",
			interaction: newInteraction("1", "filter"),
			want:        "Invalid subcommand",
		},
		{
			name:        "invalid guild",
			interaction: newInteraction("", "filter", subcommand("clear")),
			want:        "Invalid guild",
		},
		{
			name:        "unknown subcommand",
			interaction: newInteraction("1", "filter", subcommand("reset")),
			want:        "Unknown subcommand",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers()
			responder := &bot.MockResponder{}

			if err := h.commands.HandleFilter(nil, tt.interaction, responder); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			expectError(t, responder, tt.want)
		})
	}
}

func TestCommandHandlers_HandleVolume(t *testing.T) {
	tests := []struct {
		name        string
		options     []*discordgo.ApplicationCommandInteractionDataOption
		wantSuccess string
		wantError   string
		wantVolume  float64
	}{
		{
			name:        "valid level",
			options:     []*discordgo.ApplicationCommandInteractionDataOption{intOption("level", 250)},
			wantSuccess: "Volume set to **250%**.",
			wantVolume:  2.5,
		},
		{
			name:        "mute",
			options:     []*discordgo.ApplicationCommandInteractionDataOption{intOption("level", 0)},
			wantSuccess: "Volume set to **0%**.",
			wantVolume:  0,
		},
		{
			name:      "out of range",
			options:   []*discordgo.ApplicationCommandInteractionDataOption{intOption("level", 2000)},
			wantError: usecases.ErrInvalidVolume.Error(),
		},
		{
			name:      "missing level",
			wantError: usecases.ErrInvalidVolume.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers()
			responder := &bot.MockResponder{}

			i := newInteraction("1", "volume", tt.options...)
			if err := h.commands.HandleVolume(nil, i, responder); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantError != "" {
				expectError(t, responder, tt.wantError)
				if len(h.dispatcher.updates) != 0 {
					t.Errorf("expected no update, got %d", len(h.dispatcher.updates))
				}
				return
			}

			expectSuccess(t, responder, tt.wantSuccess)
			if len(h.dispatcher.updates) != 1 {
				t.Fatalf("expected 1 update, got %d", len(h.dispatcher.updates))
			}
			if v := h.dispatcher.updates[0].Filters.Volume; v == nil || *v != tt.wantVolume {
				t.Errorf("expected filter volume %v, got %v", tt.wantVolume, v)
			}
		})
	}
}

func searchTrack(id, title, author, uri string, lengthMs int64) domain.RawTrack {
	return domain.RawTrack{
		Encoded: "encoded-" + id,
		Info: domain.RawTrackInfo{
			Identifier: id,
			Title:      title,
			Author:     author,
			URI:        uri,
			Length:     &lengthMs,
		},
	}
}

func TestCommandHandlers_HandleSearch(t *testing.T) {
	h := newTestHandlers()
	h.backend.result = domain.NormalizeLoadResult(domain.RawLoadResult{
		LoadType: domain.LoadTypeSearch,
		Data: domain.SearchData{
			searchTrack("1", "One", "Artist A", "https://example.com/1", 180000),
			searchTrack("2", "Two", "Artist B", "", 65000),
		},
	}, domain.Requester{})
	responder := &bot.MockResponder{}

	i := newInteraction("1", "search", stringOption("query", "numbers"))
	if err := h.commands.HandleSearch(nil, i, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embed := responseEmbed(t, responder)
	if embed.Title != "Search results" {
		t.Errorf("expected title %q, got %q", "Search results", embed.Title)
	}
	expected := "1\\. [One](https://example.com/1) - Artist A `03:00`\n" +
		"2\\. **Two** - Artist B `01:05`\n"
	if embed.Description != expected {
		t.Errorf("expected description %q, got %q", expected, embed.Description)
	}
	if len(h.backend.queries) != 1 || h.backend.queries[0] != "numbers" {
		t.Errorf("expected query %q, got %v", "numbers", h.backend.queries)
	}
}

func TestCommandHandlers_HandleSearch_Playlist(t *testing.T) {
	h := newTestHandlers()
	h.backend.result = domain.NormalizeLoadResult(domain.RawLoadResult{
		LoadType: domain.LoadTypePlaylist,
		Data: domain.PlaylistData{
			Info: &domain.PlaylistInfo{Name: "Mix"},
			Tracks: []domain.RawTrack{
				searchTrack("1", "One", "Artist A", "https://example.com/1", 180000),
				searchTrack("2", "Two", "Artist B", "https://example.com/2", 65000),
			},
		},
	}, domain.Requester{})
	responder := &bot.MockResponder{}

	i := newInteraction("1", "search", stringOption("query", "https://example.com/mix"))
	if err := h.commands.HandleSearch(nil, i, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embed := responseEmbed(t, responder)
	if !strings.HasPrefix(embed.Description, "Playlist **Mix** (2 tracks)\n") {
		t.Errorf("expected playlist header, got %q", embed.Description)
	}
	if !strings.Contains(embed.Description, "Starts with [One](https://example.com/1)") {
		t.Errorf("expected preview line, got %q", embed.Description)
	}
}

func TestCommandHandlers_HandleSearch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		result *domain.LoadResult
		err    error
		query  string
		want   string
	}{
		{
			name:   "no results",
			result: &domain.LoadResult{LoadType: domain.LoadTypeEmpty},
			query:  "nothing",
			want:   "No results for **nothing**.",
		},
		{
			name:  "backend error",
			err:   errors.New("node unavailable"),
			query: "anything",
			want:  "node unavailable",
		},
		{
			name:  "empty query",
			query: "  ",
			want:  usecases.ErrEmptyQuery.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers()
			h.backend.result = tt.result
			h.backend.err = tt.err
			responder := &bot.MockResponder{}

			i := newInteraction("1", "search", stringOption("query", tt.query))
			if err := h.commands.HandleSearch(nil, i, responder); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			expectError(t, responder, tt.want)
		})
	}
}

func TestCommandHandlers_ResponderError(t *testing.T) {
	h := newTestHandlers()
	expectedErr := errors.New("responder failed")
	responder := &bot.MockResponder{Err: expectedErr}

	i := newInteraction("1", "filter", subcommand("clear"))
	err := h.commands.HandleFilter(nil, i, responder)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestDescribeFilters(t *testing.T) {
	tests := []struct {
		name   string
		output usecases.FilterOutput
		want   string
	}{
		{
			name:   "default",
			output: usecases.FilterOutput{Filters: domain.DefaultFilterConfiguration(), Volume: 80},
			want:   "Volume: **80%**\nNo filters applied.",
		},
		{
			name: "every group",
			output: usecases.FilterOutput{
				Filters: domain.FilterConfiguration{
					Equalizer: domain.VaporwaveEqualizer(),
					Karaoke:   &domain.Karaoke{},
					Timescale: &domain.Timescale{Pitch: domain.Float(0.55)},
					Vibrato:   &domain.Vibrato{Frequency: domain.Float(4), Depth: domain.Float(0.75)},
					Rotation:  &domain.Rotation{RotationHz: domain.Float(0.2)},
				},
				Volume: 100,
			},
			want: "Volume: **100%**\n" +
				"Equalizer: 2 bands\n" +
				"Karaoke: defaults\n" +
				"Timescale: pitch 0.55\n" +
				"Vibrato: frequency 4.00, depth 0.75\n" +
				"Rotation: hz 0.20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeFilters(&tt.output); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRequesterOf(t *testing.T) {
	i := newInteraction("1", "search")

	requester := requesterOf(i)
	if requester.ID != snowflake.ID(123) || requester.Name != "TestUser" {
		t.Errorf("unexpected requester %+v", requester)
	}

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "456", Username: "DMUser"},
	}}
	if requester := requesterOf(dm); requester.ID != snowflake.ID(456) {
		t.Errorf("expected DM user, got %+v", requester)
	}

	if requester := requesterOf(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}); requester.ID != 0 {
		t.Errorf("expected empty requester, got %+v", requester)
	}
}
