package music_player

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/bot"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
	"github.com/sglre6355/lavasync/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/lavasync/internal/modules/music_player/presentation/discord"
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var (
	_ bot.ConfigurableModule = (*MusicPlayerModule)(nil)
	_ bot.AutocompleteModule = (*MusicPlayerModule)(nil)
)

// MusicPlayerModule provides filter, volume and search commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	autocomplete    *discord.AutocompleteHandler
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter
	syncQueue       *infrastructure.FilterSyncQueue
	eventBus        *infrastructure.ChannelEventBus
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"filter": m.commandHandlers.HandleFilter,
		"volume": m.commandHandlers.HandleVolume,
		"search": m.commandHandlers.HandleSearch,
	}
}

// AutocompleteHandlers returns the autocomplete handlers for this module.
func (m *MusicPlayerModule) AutocompleteHandlers() map[string]bot.AutocompleteHandler {
	return map[string]bot.AutocompleteHandler{
		"search": func(i *discordgo.InteractionCreate, r bot.Responder) {
			if m.autocomplete == nil {
				return
			}
			m.autocomplete.HandleSearch(i, r)
		},
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	if cfg.DefaultVolume < domain.MinVolume || cfg.DefaultVolume > domain.MaxVolume {
		return fmt.Errorf("DEFAULT_VOLUME: %w", usecases.ErrInvalidVolume)
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		m.config = &Config{
			DefaultSearch: string(domain.DefaultSearchSource),
			DefaultVolume: domain.DefaultVolume,
		}
	}

	if deps.Session == nil || deps.Session.State == nil || deps.Session.State.User == nil {
		slog.Warn("music_player module initialized without session, Lavalink integration disabled")
		return m.initWithoutLavalink()
	}

	return m.initWithLavalink(deps)
}

// initWithoutLavalink wires the services against a dispatcher that drops
// every update, so commands still work on in-memory state.
func (m *MusicPlayerModule) initWithoutLavalink() error {
	m.syncQueue = infrastructure.NewFilterSyncQueue(
		noopUpdater{},
		m.config.FilterSyncTimeout,
		m.config.FilterSyncInterval,
	)
	m.wire(snowflake.ID(0), nil)
	return nil
}

func (m *MusicPlayerModule) initWithLavalink(deps bot.ModuleDependencies) error {
	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return fmt.Errorf("failed to parse bot ID: %w", err)
	}

	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(
		context.Background(),
		botID,
		infrastructure.LavalinkConfig{
			NodeName: m.config.LavalinkNodeName,
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		},
		m.eventBus,
	)
	if err != nil {
		m.eventBus.Close()
		m.eventBus = nil
		return err
	}
	m.lavalinkAdapter = lavalinkAdapter

	m.syncQueue = infrastructure.NewFilterSyncQueue(
		lavalinkAdapter,
		m.config.FilterSyncTimeout,
		m.config.FilterSyncInterval,
	)
	m.wire(botID, lavalinkAdapter)

	resolver := usecases.NewTrackResolverService(
		lavalinkAdapter,
		domain.ParseSearchSource(m.config.DefaultSearch),
	)
	recovery := usecases.NewTrackRecoveryService(resolver, lavalinkAdapter)
	application.NewRecoveryEventHandler(recovery, m.eventBus, m.config.RecoveryTimeout).Start()

	slog.Info("music_player module initialized with Lavalink")

	return nil
}

func (m *MusicPlayerModule) wire(botID snowflake.ID, backend ports.SearchBackend) {
	source := domain.ParseSearchSource(m.config.DefaultSearch)
	repo := infrastructure.NewMemoryRepository()

	filters := usecases.NewFilterService(repo, m.syncQueue, m.config.DefaultVolume)
	trackLoader := usecases.NewTrackLoaderService(backend, source)

	m.commandHandlers = discord.NewCommandHandlers(filters, trackLoader)
	m.autocomplete = discord.NewAutocompleteHandler(trackLoader)
	m.eventHandlers = discord.NewEventHandlers(botID, filters)
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Stop syncing before the node connection goes away
	if m.syncQueue != nil {
		m.syncQueue.Close()
	}

	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}

	return nil
}

// Event handlers.

func (m *MusicPlayerModule) handleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceServerUpdate(event)
	}
}

func (m *MusicPlayerModule) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceStateUpdate(event)
	}
	if m.eventHandlers != nil {
		m.eventHandlers.HandleVoiceStateUpdate(s, event)
	}
}

// noopUpdater discards player updates when no node is configured.
type noopUpdater struct{}

func (noopUpdater) UpdatePlayer(context.Context, snowflake.ID, ports.PlayerUpdate) error {
	return nil
}
