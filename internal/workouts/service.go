package workouts

import (
	"context"
	"strings"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const collection = "workouts"

type Service struct {
	roster  *fitness.Roster
	store   fitness.Store[fitness.Workout]
	metrics *metrics.Manager

	Now func() time.Time
}

func NewService(roster *fitness.Roster, metricsManager *metrics.Manager) *Service {
	return &Service{
		roster:  roster,
		store:   roster.Stores().Workouts,
		metrics: metricsManager,
		Now:     time.Now,
	}
}

func (s *Service) Today() fitness.Date {
	return fitness.DateOf(s.Now())
}

// Add stores the workout at the front of the list. A missing date means today.
func (s *Service) Add(ctx context.Context, userID int64, workout fitness.Workout) (_ fitness.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.add")
	defer tracing.EndSpanWithErrCheck(span, &err)

	today := s.Today()
	workout.Name = strings.TrimSpace(workout.Name)
	if workout.Date.IsZero() {
		workout.Date = today
	}
	if err := workout.Validate(today); err != nil {
		return fitness.Workout{}, err
	}

	var added fitness.Workout
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		u.Workouts, added = s.store.Add(u.Workouts, workout)
		return u, nil
	}); err != nil {
		return fitness.Workout{}, err
	}

	span.SetAttributes(attribute.Int64("workout.id", added.ID))
	s.metrics.RecordMutation(collection, "add")
	return added, nil
}

// List returns the workouts newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]fitness.Workout, error) {
	user, err := s.roster.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Workouts == nil {
		return []fitness.Workout{}, nil
	}
	return user.Workouts, nil
}

// Delete removes the workout; an unknown id is a no-op reported as false.
func (s *Service) Delete(ctx context.Context, userID, id int64) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.delete")
	span.SetAttributes(attribute.Int64("workout.id", id))
	defer tracing.EndSpanWithErrCheck(span, &err)

	removed := false
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		u.Workouts, removed = s.store.Remove(u.Workouts, id)
		if !removed {
			return u, fitness.ErrNoChange
		}
		return u, nil
	}); err != nil {
		return false, err
	}

	if removed {
		s.metrics.RecordMutation(collection, "delete")
	}
	return removed, nil
}
