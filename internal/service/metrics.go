package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
)

// Resolver returns the most recent sample of a kind.
type Resolver struct {
	store MetricStore
}

func NewResolver(store MetricStore) *Resolver {
	return &Resolver{store: store}
}

// Latest returns nil when the user has no sample of that kind.
func (r *Resolver) Latest(ctx context.Context, userID int64, tag string) (*domain.SampleView, error) {
	spec, err := domain.LookupKind(tag)
	if err != nil {
		return nil, err
	}

	s, err := r.store.Latest(ctx, spec, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	view := spec.View(*s)
	return &view, nil
}

type History struct {
	store MetricStore
	now   func() time.Time
}

func NewHistory(store MetricStore, now func() time.Time) *History {
	return &History{store: store, now: now}
}

// Query charts the samples of a kind dated within the period ending now.
func (h *History) Query(ctx context.Context, userID int64, kindTag, periodTag string) ([]domain.HistoryPoint, error) {
	spec, err := domain.LookupKind(kindTag)
	if err != nil {
		return nil, err
	}
	period, err := domain.ParsePeriod(periodTag)
	if err != nil {
		return nil, err
	}

	samples, err := h.store.Since(ctx, spec, userID, period.Start(h.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s history: %w", spec.Kind, err)
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Date.Before(samples[j].Date) })

	points := []domain.HistoryPoint{}
	for _, s := range samples {
		points = append(points, spec.Points(s)...)
	}
	return points, nil
}

type Dashboard struct {
	store  MetricStore
	loc    *time.Location
	now    func() time.Time
	logger *logger.Logger
}

func NewDashboard(store MetricStore, loc *time.Location, now func() time.Time, logger *logger.Logger) *Dashboard {
	return &Dashboard{store: store, loc: loc, now: now, logger: logger}
}

// Build gathers the latest values and today's totals. Kinds without samples stay
// null, zero or empty.
func (d *Dashboard) Build(ctx context.Context, userID int64) (domain.Dashboard, error) {
	out := domain.Dashboard{ExercisesToday: []domain.ExerciseEntry{}}

	var err error
	if out.Weight, err = d.latestValue(ctx, domain.KindWeight, userID); err != nil {
		return domain.Dashboard{}, err
	}
	if out.Height, err = d.latestValue(ctx, domain.KindHeight, userID); err != nil {
		return domain.Dashboard{}, err
	}
	if out.BodyFatPercentage, err = d.latestValue(ctx, domain.KindBodyFatPercentage, userID); err != nil {
		return domain.Dashboard{}, err
	}

	comp := domain.MustKind(domain.KindBodyComposition)
	latest, err := d.store.Latest(ctx, comp, userID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	if latest != nil {
		out.BodyComposition = domain.BodyCompositionSnapshot{
			Fat:    floatPtr(latest.Float(comp.Index("fat"))),
			Muscle: floatPtr(latest.Float(comp.Index("muscle"))),
			Water:  floatPtr(latest.Float(comp.Index("water"))),
		}
	}

	start, end := domain.DayBounds(d.now(), d.loc)

	if out.WaterConsumptionToday, err = d.store.Sum(ctx, domain.MustKind(domain.KindWaterConsumption), "water_amount", userID, start, end); err != nil {
		return domain.Dashboard{}, err
	}
	if out.DailySteps, err = d.store.Sum(ctx, domain.MustKind(domain.KindDailySteps), "steps_amount", userID, start, end); err != nil {
		return domain.Dashboard{}, err
	}

	exercise := domain.MustKind(domain.KindExercise)
	today, err := d.store.Between(ctx, exercise, userID, start, end)
	if err != nil {
		return domain.Dashboard{}, err
	}
	name, duration := exercise.Index("exercise_name"), exercise.Index("duration")
	for _, s := range today {
		out.ExercisesToday = append(out.ExercisesToday, domain.ExerciseEntry{Name: s.Text(name), Duration: s.Int(duration)})
	}

	return out, nil
}

// View wraps Build in a response envelope. Storage faults become an error
// envelope instead of propagating.
func (d *Dashboard) View(ctx context.Context, userID int64) domain.Envelope {
	dash, err := d.Build(ctx, userID)
	if err != nil {
		d.logger.Error("failed to load dashboard", "user_id", userID, "error", err)
		return domain.Failure("failed to load dashboard")
	}
	return domain.Success(dash)
}

func (d *Dashboard) latestValue(ctx context.Context, kind domain.Kind, userID int64) (*float64, error) {
	s, err := d.store.Latest(ctx, domain.MustKind(kind), userID)
	if err != nil || s == nil {
		return nil, err
	}
	return floatPtr(s.Float(0)), nil
}

func floatPtr(v float64) *float64 {
	return &v
}
