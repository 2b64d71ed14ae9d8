package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

var (
	// ErrNoNode is returned when no Lavalink node is available.
	ErrNoNode = errors.New("no available Lavalink node")
	// ErrNodeNotReady is returned when the node has no session yet.
	ErrNodeNotReady = errors.New("lavalink node has no session")
)

// voiceEventBuffer buffers voice events to ensure both VoiceStateUpdate and
// VoiceServerUpdate are received before forwarding to Lavalink.
// This prevents "Partial Lavalink voice state" errors when events arrive out of order.
type voiceEventBuffer struct {
	mu sync.Mutex

	// From VoiceStateUpdate
	hasVoiceState bool
	channelID     *snowflake.ID
	sessionID     string

	// From VoiceServerUpdate
	hasVoiceServer bool
	token          string
	endpoint       string
}

// setVoiceState stores voice state data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceState(channelID *snowflake.ID, sessionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceState = true
	b.channelID = channelID
	b.sessionID = sessionID

	return b.hasVoiceState && b.hasVoiceServer
}

// setVoiceServer stores voice server data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceServer(token, endpoint string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceServer = true
	b.token = token
	b.endpoint = endpoint

	return b.hasVoiceState && b.hasVoiceServer
}

// drain returns the buffered data and resets the buffer.
func (b *voiceEventBuffer) drain() (channelID *snowflake.ID, sessionID, token, endpoint string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channelID, sessionID, token, endpoint = b.channelID, b.sessionID, b.token, b.endpoint

	b.hasVoiceState = false
	b.hasVoiceServer = false
	b.channelID = nil
	b.sessionID = ""
	b.token = ""
	b.endpoint = ""

	return
}

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	NodeName string
	Address  string
	Password string
	Secure   bool
}

// LavalinkAdapter wraps DisGoLink to implement the search backend, the
// player command channel and the audio player.
type LavalinkAdapter struct {
	link      disgolink.Client
	botID     snowflake.ID
	publisher ports.EventPublisher

	// voiceBuffers holds buffered voice events per guild to handle out-of-order events
	voiceBufferMu sync.Mutex
	voiceBuffers  map[snowflake.ID]*voiceEventBuffer
}

// NewLavalinkAdapter creates a new LavalinkAdapter and connects it to the node.
// Tracks the node fails to play are published to publisher.
func NewLavalinkAdapter(
	ctx context.Context,
	botID snowflake.ID,
	config LavalinkConfig,
	publisher ports.EventPublisher,
) (*LavalinkAdapter, error) {
	adapter := &LavalinkAdapter{
		botID:        botID,
		publisher:    publisher,
		voiceBuffers: make(map[snowflake.ID]*voiceEventBuffer),
	}

	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)

	name := config.NodeName
	if name == "" {
		name = "main"
	}

	node, err := adapter.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     name,
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return adapter, nil
}

// Close disconnects from all nodes.
func (c *LavalinkAdapter) Close() {
	c.link.Close()
}

// Resolve loads query from the best node and normalizes the result.
func (c *LavalinkAdapter) Resolve(
	ctx context.Context,
	query string,
	source domain.SearchSource,
	requester domain.Requester,
) (*domain.LoadResult, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, ErrNoNode
	}

	identifier := domain.NewSearchQuery(query, source).LavalinkQuery()

	result, err := node.LoadTracks(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	if result == nil {
		return domain.NormalizeLoadResult(domain.RawLoadResult{
			LoadType: domain.LoadTypeEmpty,
			Data:     domain.EmptyData{},
		}, requester), nil
	}

	// Re-encode so that every result goes through the same wire decoder.
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode load result: %w", err)
	}

	return decodeLoadResult(payload, requester)
}

func decodeLoadResult(payload []byte, requester domain.Requester) (*domain.LoadResult, error) {
	raw, err := domain.ParseLoadResult(payload)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeLoadResult(raw, requester), nil
}

// UpdatePlayer replaces the filters of the guild's player.
func (c *LavalinkAdapter) UpdatePlayer(
	ctx context.Context,
	guildID snowflake.ID,
	update ports.PlayerUpdate,
) error {
	patcher, err := newPlayerPatcher(c.link.Player(guildID).Node())
	if err != nil {
		return err
	}

	return patcher.UpdatePlayer(ctx, guildID, update)
}

// Play starts playback of the track's encoded reference.
func (c *LavalinkAdapter) Play(
	ctx context.Context,
	guildID snowflake.ID,
	track *domain.Track,
) error {
	player := c.link.Player(guildID)

	// Use WithEncodedTrack to avoid userData:null issue
	if err := player.Update(ctx, lavalink.WithEncodedTrack(track.Encoded())); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}

	return nil
}

// nodeRest sends raw requests to a node's REST API.
type nodeRest interface {
	Do(rq *http.Request) (*http.Response, error)
}

// playerPatcher sends a PlayerUpdate to the node's player endpoint as is.
// Unset groups stay explicit nulls and every band and rate keeps its value.
type playerPatcher struct {
	rest      nodeRest
	baseURL   string
	sessionID string
}

func newPlayerPatcher(node disgolink.Node) (playerPatcher, error) {
	if node == nil {
		return playerPatcher{}, ErrNoNode
	}

	sessionID := node.SessionID()
	if sessionID == "" {
		return playerPatcher{}, ErrNodeNotReady
	}

	return playerPatcher{
		rest:      node.Rest(),
		baseURL:   node.Config().RestURL(),
		sessionID: sessionID,
	}, nil
}

func (p playerPatcher) UpdatePlayer(
	ctx context.Context,
	guildID snowflake.ID,
	update ports.PlayerUpdate,
) error {
	body, err := json.Marshal(ports.PlayerUpdate{Filters: withNodeDefaults(update.Filters)})
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	endpoint := p.baseURL + disgolink.EndpointPlayer.Format(p.sessionID, guildID)
	rq, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build player update: %w", err)
	}
	rq.Header.Set("Content-Type", "application/json")

	rs, err := p.rest.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to update filters: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode < http.StatusBadRequest {
		return nil
	}

	var nodeErr lavalink.Error
	if err := json.NewDecoder(rs.Body).Decode(&nodeErr); err != nil {
		return fmt.Errorf("failed to update filters: node responded with status %d", rs.StatusCode)
	}
	return fmt.Errorf("failed to update filters: %w", nodeErr)
}

// withNodeDefaults fills the unset options of every set group with the
// node's documented defaults.
func withNodeDefaults(filters ports.Filters) ports.Filters {
	if k := filters.Karaoke; k != nil {
		filters.Karaoke = &domain.Karaoke{
			Level:       orDefault(k.Level, 1.0),
			MonoLevel:   orDefault(k.MonoLevel, 1.0),
			FilterBand:  orDefault(k.FilterBand, 220.0),
			FilterWidth: orDefault(k.FilterWidth, 100.0),
		}
	}
	if t := filters.Timescale; t != nil {
		filters.Timescale = &domain.Timescale{
			Speed: orDefault(t.Speed, 1.0),
			Pitch: orDefault(t.Pitch, 1.0),
			Rate:  orDefault(t.Rate, 1.0),
		}
	}
	if v := filters.Vibrato; v != nil {
		filters.Vibrato = &domain.Vibrato{
			Frequency: orDefault(v.Frequency, 2.0),
			Depth:     orDefault(v.Depth, 0.5),
		}
	}
	if r := filters.Rotation; r != nil {
		filters.Rotation = &domain.Rotation{
			RotationHz: orDefault(r.RotationHz, 0),
		}
	}
	if filters.Equalizer == nil {
		filters.Equalizer = []domain.EqualizerBand{}
	}
	return filters
}

func orDefault(v *float64, def float64) *float64 {
	if v != nil {
		return domain.Float(*v)
	}
	return domain.Float(def)
}

// OnVoiceServerUpdate handles Discord voice server updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	buffer := c.getOrCreateVoiceBuffer(guildID)
	if buffer.setVoiceServer(event.Token, event.Endpoint) {
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	// Only handle updates for the bot itself
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	// Empty channel means the bot is disconnecting
	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	// Disconnects don't wait for a VoiceServerUpdate
	if channelID == nil {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		c.clearVoiceBuffer(guildID)
		return
	}

	buffer := c.getOrCreateVoiceBuffer(guildID)
	if buffer.setVoiceState(channelID, event.SessionID) {
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}
}

// getOrCreateVoiceBuffer returns the voice buffer for a guild, creating one if needed.
func (c *LavalinkAdapter) getOrCreateVoiceBuffer(guildID snowflake.ID) *voiceEventBuffer {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()

	buffer, exists := c.voiceBuffers[guildID]
	if !exists {
		buffer = &voiceEventBuffer{}
		c.voiceBuffers[guildID] = buffer
	}
	return buffer
}

// clearVoiceBuffer removes the voice buffer for a guild.
func (c *LavalinkAdapter) clearVoiceBuffer(guildID snowflake.ID) {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()
	delete(c.voiceBuffers, guildID)
}

// forwardBufferedVoiceEvents sends the buffered voice events to Lavalink.
func (c *LavalinkAdapter) forwardBufferedVoiceEvents(
	guildID snowflake.ID,
	buffer *voiceEventBuffer,
) {
	channelID, sessionID, token, endpoint := buffer.drain()

	slog.Debug("forwarding buffered voice events to Lavalink",
		"guild", guildID,
		"channel", channelID,
		"hasSessionID", sessionID != "",
	)

	c.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, token, endpoint)
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)
	c.publishTrackFailed(player.GuildID(), event.Track, domain.TrackFailureException, event.Exception.Message)
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
	c.publishTrackFailed(player.GuildID(), event.Track, domain.TrackFailureStuck, "")
}

func (c *LavalinkAdapter) publishTrackFailed(
	guildID snowflake.ID,
	failed lavalink.Track,
	kind domain.TrackFailureKind,
	message string,
) {
	if c.publisher == nil {
		return
	}

	track, err := toDomainTrack(failed)
	if err != nil {
		slog.Warn("failed to decode failed track", "guild", guildID, "error", err)
		return
	}

	c.publisher.PublishTrackFailed(domain.TrackFailedEvent{
		GuildID: guildID,
		Track:   track,
		Kind:    kind,
		Message: message,
	})
}

func toDomainTrack(track lavalink.Track) (*domain.Track, error) {
	payload, err := json.Marshal(track)
	if err != nil {
		return nil, fmt.Errorf("failed to encode track: %w", err)
	}

	var raw domain.RawTrack
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode track: %w", err)
	}

	return domain.NewTrack(raw, domain.Requester{}), nil
}

// Ensure LavalinkAdapter implements port interfaces.
var (
	_ ports.SearchBackend = (*LavalinkAdapter)(nil)
	_ ports.PlayerUpdater = (*LavalinkAdapter)(nil)
	_ ports.AudioPlayer   = (*LavalinkAdapter)(nil)
)
