package usecases

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/application/ports"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

// FilterOutput describes a session's filters after an operation.
type FilterOutput struct {
	Filters domain.FilterConfiguration
	Volume  int
}

// ApplyPresetInput contains the input for the ApplyPreset use case.
type ApplyPresetInput struct {
	GuildID snowflake.ID
	Preset  string
}

// ClearFiltersInput contains the input for the Clear use case.
type ClearFiltersInput struct {
	GuildID snowflake.ID
}

// SetVolumeInput contains the input for the SetVolume use case.
type SetVolumeInput struct {
	GuildID snowflake.ID
	Volume  int
}

// CurrentFiltersInput contains the input for the Current use case.
type CurrentFiltersInput struct {
	GuildID snowflake.ID
}

// FilterService handles filter and volume operations of playback sessions.
type FilterService struct {
	repo          domain.PlayerStateRepository
	dispatcher    ports.FilterDispatcher
	defaultVolume int
}

// NewFilterService creates a new FilterService.
func NewFilterService(
	repo domain.PlayerStateRepository,
	dispatcher ports.FilterDispatcher,
	defaultVolume int,
) *FilterService {
	return &FilterService{
		repo:          repo,
		dispatcher:    dispatcher,
		defaultVolume: domain.ClampVolume(defaultVolume),
	}
}

// ApplyPreset applies a named filter preset to the guild's session.
func (s *FilterService) ApplyPreset(
	_ context.Context,
	input ApplyPresetInput,
) (*FilterOutput, error) {
	preset, ok := domain.ParseFilterPreset(input.Preset)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, input.Preset)
	}

	state := s.repo.GetOrCreate(input.GuildID, s.defaultVolume)
	NewFilterChain(state, s.dispatcher).ApplyPreset(preset)

	return s.output(state), nil
}

// Clear resets all filters of the guild's session.
func (s *FilterService) Clear(_ context.Context, input ClearFiltersInput) (*FilterOutput, error) {
	state := s.repo.GetOrCreate(input.GuildID, s.defaultVolume)
	NewFilterChain(state, s.dispatcher).ClearFilters()

	return s.output(state), nil
}

// SetVolume changes the session volume and resyncs the filters with it.
func (s *FilterService) SetVolume(_ context.Context, input SetVolumeInput) (*FilterOutput, error) {
	if input.Volume < domain.MinVolume || input.Volume > domain.MaxVolume {
		return nil, ErrInvalidVolume
	}

	state := s.repo.GetOrCreate(input.GuildID, s.defaultVolume)
	state.SetVolume(input.Volume)
	NewFilterChain(state, s.dispatcher).Sync()

	return s.output(state), nil
}

// Current returns the guild's filters without changing them.
func (s *FilterService) Current(
	_ context.Context,
	input CurrentFiltersInput,
) (*FilterOutput, error) {
	state := s.repo.Get(input.GuildID)
	if state == nil {
		return nil, ErrNoSession
	}
	return s.output(state), nil
}

// EndSession drops the guild's session and any pending filter update.
func (s *FilterService) EndSession(_ context.Context, guildID snowflake.ID) {
	s.repo.Delete(guildID)
	s.dispatcher.Forget(guildID)
}

func (s *FilterService) output(state *domain.PlayerState) *FilterOutput {
	return &FilterOutput{
		Filters: state.Filters(),
		Volume:  state.Volume(),
	}
}
