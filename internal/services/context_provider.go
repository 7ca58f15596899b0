package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/scheduling"
)

// ContextProvider supplies the per-cycle snapshot of condition-relevant
// facts. Weather, calendar and sleep history integrations live behind this
// boundary; the core treats the snapshot as opaque typed input.
type ContextProvider interface {
	Snapshot(ctx context.Context, alarmID uuid.UUID) (scheduling.ContextSnapshot, error)
}

// StaticContextProvider returns a fixed snapshot. Used in development mode
// and in tests when no upstream data sources are wired.
type StaticContextProvider struct {
	Weather          string
	CalendarTitles   []string
	SleepDebtMinutes float64
	ActivityTags     []string
}

func (p *StaticContextProvider) Snapshot(_ context.Context, _ uuid.UUID) (scheduling.ContextSnapshot, error) {
	return scheduling.ContextSnapshot{
		TakenAt:          time.Now(),
		Weather:          p.Weather,
		CalendarTitles:   p.CalendarTitles,
		SleepDebtMinutes: p.SleepDebtMinutes,
		ActivityTags:     p.ActivityTags,
	}, nil
}

// CompositeContextProvider layers providers: later snapshots fill fields the
// earlier ones left empty. Lets a deployment mix a live weather source with
// static calendar data.
type CompositeContextProvider struct {
	Providers []ContextProvider
}

func (p *CompositeContextProvider) Snapshot(ctx context.Context, alarmID uuid.UUID) (scheduling.ContextSnapshot, error) {
	merged := scheduling.ContextSnapshot{TakenAt: time.Now()}
	for _, provider := range p.Providers {
		snap, err := provider.Snapshot(ctx, alarmID)
		if err != nil {
			return scheduling.ContextSnapshot{}, err
		}
		if merged.Weather == "" {
			merged.Weather = snap.Weather
		}
		if len(merged.CalendarTitles) == 0 {
			merged.CalendarTitles = snap.CalendarTitles
		}
		if merged.SleepDebtMinutes == 0 {
			merged.SleepDebtMinutes = snap.SleepDebtMinutes
		}
		if len(merged.ActivityTags) == 0 {
			merged.ActivityTags = snap.ActivityTags
		}
	}
	return merged, nil
}
