package records

import (
	"context"
	"strings"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const collection = "records"

type Service struct {
	roster  *fitness.Roster
	store   fitness.Store[fitness.PersonalRecord]
	metrics *metrics.Manager

	Now func() time.Time
}

func NewService(roster *fitness.Roster, metricsManager *metrics.Manager) *Service {
	return &Service{
		roster:  roster,
		store:   roster.Stores().Records,
		metrics: metricsManager,
		Now:     time.Now,
	}
}

type Overview struct {
	Records      []fitness.PersonalRecord `json:"records"`
	Categories   Categories               `json:"categories"`
	Total        int                      `json:"total"`
	Manual       int                      `json:"manual"`
	AutoDetected int                      `json:"autoDetected"`
}

// Add stores a manually entered record. Unit defaults to kg, date to today.
func (s *Service) Add(ctx context.Context, userID int64, rec fitness.PersonalRecord) (_ fitness.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.add")
	defer tracing.EndSpanWithErrCheck(span, &err)

	today := fitness.DateOf(s.Now())
	rec.Exercise = strings.TrimSpace(rec.Exercise)
	rec.Notes = strings.TrimSpace(rec.Notes)
	rec.AutoDetected = false
	rec.SourceWorkoutID = nil
	if rec.Unit == "" {
		rec.Unit = fitness.UnitKg
	}
	if rec.Date.IsZero() {
		rec.Date = today
	}
	if err := rec.Validate(today); err != nil {
		return fitness.PersonalRecord{}, err
	}

	var added fitness.PersonalRecord
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		u.PersonalRecords, added = s.store.Add(u.PersonalRecords, rec)
		return u, nil
	}); err != nil {
		return fitness.PersonalRecord{}, err
	}

	span.SetAttributes(attribute.Int64("record.id", added.ID))
	s.metrics.RecordMutation(collection, "add")
	return added, nil
}

// DetectFromWorkouts merges newly detected records into the user's records and
// returns only the new ones.
func (s *Service) DetectFromWorkouts(ctx context.Context, userID int64) (_ []fitness.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.detect")
	defer tracing.EndSpanWithErrCheck(span, &err)

	added := []fitness.PersonalRecord{}
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		detected := Detect(u.Workouts, u.PersonalRecords)
		if len(detected) == 0 {
			return u, fitness.ErrNoChange
		}
		for _, rec := range detected {
			u.PersonalRecords, rec = s.store.Add(u.PersonalRecords, rec)
			added = append(added, rec)
		}
		return u, nil
	}); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("records.detected", len(added)))
	if len(added) > 0 {
		log.Debugf("user %d: %d personal records detected from workouts", userID, len(added))
		s.metrics.RecordMutation(collection, "detect")
	}
	return added, nil
}

func (s *Service) List(ctx context.Context, userID int64) (Overview, error) {
	user, err := s.roster.Get(ctx, userID)
	if err != nil {
		return Overview{}, err
	}

	list := user.PersonalRecords
	if list == nil {
		list = []fitness.PersonalRecord{}
	}
	overview := Overview{
		Records:    list,
		Categories: Categorize(list),
		Total:      len(list),
	}
	for _, r := range list {
		if r.AutoDetected {
			overview.AutoDetected++
		} else {
			overview.Manual++
		}
	}
	return overview, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.delete")
	span.SetAttributes(attribute.Int64("record.id", id))
	defer tracing.EndSpanWithErrCheck(span, &err)

	removed := false
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		u.PersonalRecords, removed = s.store.Remove(u.PersonalRecords, id)
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
