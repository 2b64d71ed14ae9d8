package usecases

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

const testGuildID = snowflake.ID(1)

var testRequester = domain.Requester{ID: snowflake.ID(123), Name: "TestUser"}

func ms(v int64) *int64 {
	return &v
}

func mockTrack(id, author, title string, length *int64) *domain.Track {
	return domain.NewTrack(domain.RawTrack{
		Encoded: "encoded-" + id,
		Info: domain.RawTrackInfo{
			Identifier: id,
			Author:     author,
			Title:      title,
			Length:     length,
		},
	}, testRequester)
}

func searchResult(tracks ...*domain.Track) *domain.LoadResult {
	if tracks == nil {
		tracks = []*domain.Track{}
	}
	return &domain.LoadResult{
		LoadType: domain.LoadTypeSearch,
		Tracks:   tracks,
	}
}

type searchCall struct {
	query     string
	source    domain.SearchSource
	requester domain.Requester
}

type mockSearchBackend struct {
	result *domain.LoadResult
	err    error
	calls  []searchCall
}

func (m *mockSearchBackend) Resolve(
	_ context.Context,
	query string,
	source domain.SearchSource,
	requester domain.Requester,
) (*domain.LoadResult, error) {
	m.calls = append(m.calls, searchCall{query: query, source: source, requester: requester})
	return m.result, m.err
}

type dispatched struct {
	guildID snowflake.ID
	update  ports.PlayerUpdate
}

type mockDispatcher struct {
	mu        sync.Mutex
	updates   []dispatched
	forgotten []snowflake.ID
}

func (m *mockDispatcher) Dispatch(guildID snowflake.ID, update ports.PlayerUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, dispatched{guildID: guildID, update: update})
}

func (m *mockDispatcher) Forget(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forgotten = append(m.forgotten, guildID)
}

func (m *mockDispatcher) last() ports.PlayerUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates[len(m.updates)-1].update
}

func (m *mockDispatcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

type mockRepository struct {
	states  map[snowflake.ID]*domain.PlayerState
	deleted []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		states: make(map[snowflake.ID]*domain.PlayerState),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	return m.states[guildID]
}

func (m *mockRepository) GetOrCreate(guildID snowflake.ID, volume int) *domain.PlayerState {
	state, ok := m.states[guildID]
	if !ok {
		state = domain.NewPlayerState(guildID, volume)
		m.states[guildID] = state
	}
	return state
}

func (m *mockRepository) Save(state *domain.PlayerState) {
	m.states[state.GuildID()] = state
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.deleted = append(m.deleted, guildID)
	delete(m.states, guildID)
}

type mockAudioPlayer struct {
	played  []*domain.Track
	playErr error
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track *domain.Track) error {
	m.played = append(m.played, track)
	return m.playErr
}

// Compile-time interface checks.
var (
	_ ports.SearchBackend          = (*mockSearchBackend)(nil)
	_ ports.FilterDispatcher       = (*mockDispatcher)(nil)
	_ ports.AudioPlayer            = (*mockAudioPlayer)(nil)
	_ domain.PlayerStateRepository = (*mockRepository)(nil)
)
