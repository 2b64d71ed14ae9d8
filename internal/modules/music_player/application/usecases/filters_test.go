package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/lavasync/internal/modules/music_player/domain"
)

func newTestFilterService(defaultVolume int) (*FilterService, *mockRepository, *mockDispatcher) {
	repo := newMockRepository()
	dispatcher := &mockDispatcher{}
	return NewFilterService(repo, dispatcher, defaultVolume), repo, dispatcher
}

func TestFilterService_ApplyPreset(t *testing.T) {
	svc, repo, dispatcher := newTestFilterService(domain.DefaultVolume)

	output, err := svc.ApplyPreset(context.Background(), ApplyPresetInput{
		GuildID: testGuildID,
		Preset:  "nightcore",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Filters.Timescale == nil || *output.Filters.Timescale.Speed != 1.1 {
		t.Errorf("expected nightcore timescale, got %+v", output.Filters.Timescale)
	}
	if output.Volume != domain.DefaultVolume {
		t.Errorf("expected volume %d, got %d", domain.DefaultVolume, output.Volume)
	}
	if repo.Get(testGuildID) == nil {
		t.Error("expected session to be created")
	}
	if dispatcher.count() != 1 {
		t.Errorf("expected 1 sync, got %d", dispatcher.count())
	}
}

func TestFilterService_ApplyPreset_Accumulates(t *testing.T) {
	svc, _, dispatcher := newTestFilterService(domain.DefaultVolume)
	ctx := context.Background()

	if _, err := svc.ApplyPreset(ctx, ApplyPresetInput{GuildID: testGuildID, Preset: "8d"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output, err := svc.ApplyPreset(ctx, ApplyPresetInput{GuildID: testGuildID, Preset: "bassboost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Filters.Rotation == nil || len(output.Filters.Equalizer) != 15 {
		t.Errorf("expected rotation and equalizer, got %+v", output.Filters)
	}

	last := dispatcher.last().Filters
	if last.Rotation == nil || len(last.Equalizer) != 15 {
		t.Errorf("expected full snapshot in last sync, got %+v", last)
	}
}

func TestFilterService_ApplyPreset_Unknown(t *testing.T) {
	svc, repo, dispatcher := newTestFilterService(domain.DefaultVolume)

	_, err := svc.ApplyPreset(context.Background(), ApplyPresetInput{
		GuildID: testGuildID,
		Preset:  "loud",
	})
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
	if repo.Get(testGuildID) != nil {
		t.Error("expected no session to be created")
	}
	if dispatcher.count() != 0 {
		t.Errorf("expected no sync, got %d", dispatcher.count())
	}
}

func TestFilterService_Clear(t *testing.T) {
	svc, _, dispatcher := newTestFilterService(domain.DefaultVolume)
	ctx := context.Background()

	if _, err := svc.ApplyPreset(ctx, ApplyPresetInput{GuildID: testGuildID, Preset: "vaporwave"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output, err := svc.Clear(ctx, ClearFiltersInput{GuildID: testGuildID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !output.Filters.IsDefault() {
		t.Errorf("expected default filters, got %+v", output.Filters)
	}
	if last := dispatcher.last().Filters; len(last.Equalizer) != 0 || last.Timescale != nil {
		t.Errorf("expected cleared filters in last sync, got %+v", last)
	}
}

func TestFilterService_SetVolume(t *testing.T) {
	tests := []struct {
		name    string
		volume  int
		wantErr bool
		want    float64
	}{
		{name: "minimum", volume: 0, want: 0},
		{name: "half", volume: 50, want: 0.5},
		{name: "boost", volume: 300, want: 3},
		{name: "maximum", volume: 1000, want: 10},
		{name: "below range", volume: -1, wantErr: true},
		{name: "above range", volume: 1001, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, dispatcher := newTestFilterService(domain.DefaultVolume)

			output, err := svc.SetVolume(context.Background(), SetVolumeInput{
				GuildID: testGuildID,
				Volume:  tt.volume,
			})

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVolume) {
					t.Errorf("expected ErrInvalidVolume, got %v", err)
				}
				if dispatcher.count() != 0 {
					t.Errorf("expected no sync, got %d", dispatcher.count())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.Volume != tt.volume {
				t.Errorf("expected volume %d, got %d", tt.volume, output.Volume)
			}
			if v := dispatcher.last().Filters.Volume; v == nil || *v != tt.want {
				t.Errorf("expected filter volume %v, got %v", tt.want, v)
			}
		})
	}
}

func TestFilterService_SetVolume_KeepsFilters(t *testing.T) {
	svc, _, dispatcher := newTestFilterService(domain.DefaultVolume)
	ctx := context.Background()

	if _, err := svc.ApplyPreset(ctx, ApplyPresetInput{GuildID: testGuildID, Preset: "8d"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SetVolume(ctx, SetVolumeInput{GuildID: testGuildID, Volume: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := dispatcher.last().Filters
	if last.Rotation == nil {
		t.Error("expected rotation to be resent with the new volume")
	}
	if last.Volume == nil || *last.Volume != 0.2 {
		t.Errorf("expected volume 0.2, got %v", last.Volume)
	}
}

func TestFilterService_DefaultVolume(t *testing.T) {
	svc, _, dispatcher := newTestFilterService(5000)

	if _, err := svc.Clear(context.Background(), ClearFiltersInput{GuildID: testGuildID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := dispatcher.last().Filters.Volume; v == nil || *v != 10 {
		t.Errorf("expected clamped default volume 10, got %v", v)
	}
}

func TestFilterService_Current(t *testing.T) {
	svc, _, _ := newTestFilterService(domain.DefaultVolume)
	ctx := context.Background()

	if _, err := svc.Current(ctx, CurrentFiltersInput{GuildID: testGuildID}); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}

	if _, err := svc.SetVolume(ctx, SetVolumeInput{GuildID: testGuildID, Volume: 70}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output, err := svc.Current(ctx, CurrentFiltersInput{GuildID: testGuildID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Volume != 70 {
		t.Errorf("expected volume 70, got %d", output.Volume)
	}
	if !output.Filters.IsDefault() {
		t.Errorf("expected default filters, got %+v", output.Filters)
	}
}

func TestFilterService_EndSession(t *testing.T) {
	svc, repo, dispatcher := newTestFilterService(domain.DefaultVolume)
	ctx := context.Background()
	otherGuild := snowflake.ID(2)

	for _, guildID := range []snowflake.ID{testGuildID, otherGuild} {
		if _, err := svc.ApplyPreset(ctx, ApplyPresetInput{GuildID: guildID, Preset: "tv"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	svc.EndSession(ctx, testGuildID)

	if repo.Get(testGuildID) != nil {
		t.Error("expected session to be deleted")
	}
	if repo.Get(otherGuild) == nil {
		t.Error("expected other session to survive")
	}
	if len(dispatcher.forgotten) != 1 || dispatcher.forgotten[0] != testGuildID {
		t.Errorf("expected guild %d to be forgotten, got %v", testGuildID, dispatcher.forgotten)
	}

	output, err := svc.ApplyPreset(ctx, ApplyPresetInput{GuildID: testGuildID, Preset: "soft"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Filters.Equalizer) != 15 || output.Filters.Equalizer[7].Gain != 0 {
		t.Errorf("expected a fresh session with only the soft equalizer, got %v", output.Filters.Equalizer)
	}
}
