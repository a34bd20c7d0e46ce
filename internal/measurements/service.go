package measurements

import (
	"context"
	"strings"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/health"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const collection = "measurements"

type Service struct {
	roster  *fitness.Roster
	store   fitness.Store[fitness.BodyMeasurement]
	metrics *metrics.Manager

	Now func() time.Time
}

func NewService(roster *fitness.Roster, metricsManager *metrics.Manager) *Service {
	return &Service{
		roster:  roster,
		store:   roster.Stores().Measurements,
		metrics: metricsManager,
		Now:     time.Now,
	}
}

// Latest is the most recently added measurement with its category labels.
type Latest struct {
	Measurement     *fitness.BodyMeasurement `json:"measurement"`
	BMICategory     *health.BMICategory      `json:"bmiCategory"`
	BodyFatCategory *health.BodyFatCategory  `json:"bodyFatCategory"`
}

// Add computes the derived values from the raw inputs and appends the measurement.
// Gender defaults to male and activity level to moderate.
func (s *Service) Add(ctx context.Context, userID int64, m fitness.BodyMeasurement) (_ fitness.BodyMeasurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurements.add")
	defer tracing.EndSpanWithErrCheck(span, &err)

	today := fitness.DateOf(s.Now())
	if m.Date.IsZero() {
		m.Date = today
	}
	if m.Gender == "" {
		m.Gender = fitness.GenderMale
	}
	if m.ActivityLevel == "" {
		m.ActivityLevel = fitness.ActivityModerate
	}
	m.Notes = strings.TrimSpace(m.Notes)
	if err := m.Validate(today); err != nil {
		return fitness.BodyMeasurement{}, err
	}

	derived := health.Compute(health.MeasurementInput{
		WeightKg:      m.Weight,
		HeightCm:      m.Height,
		Age:           m.Age,
		Gender:        string(m.Gender),
		WaistCm:       m.Waist,
		NeckCm:        m.Neck,
		HipsCm:        m.Hips,
		ActivityLevel: string(m.ActivityLevel),
	})
	m.BMI = derived.BMI
	m.BMR = derived.BMR
	m.TDEE = derived.TDEE
	m.BodyFat = derived.BodyFat

	var added fitness.BodyMeasurement
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		u.BodyMeasurements, added = s.store.Add(u.BodyMeasurements, m)
		return u, nil
	}); err != nil {
		return fitness.BodyMeasurement{}, err
	}

	span.SetAttributes(attribute.Int64("measurement.id", added.ID))
	s.metrics.RecordMutation(collection, "add")
	return added, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]fitness.BodyMeasurement, error) {
	user, err := s.roster.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.BodyMeasurements == nil {
		return []fitness.BodyMeasurement{}, nil
	}
	return user.BodyMeasurements, nil
}

func (s *Service) Latest(ctx context.Context, userID int64) (Latest, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return Latest{}, err
	}
	return LatestOf(list), nil
}

// LatestOf picks the last appended measurement; categories are only set when the
// derived value is available.
func LatestOf(list []fitness.BodyMeasurement) Latest {
	if len(list) == 0 {
		return Latest{}
	}
	m := list[len(list)-1]
	latest := Latest{Measurement: &m}
	if m.BMI != nil {
		c := health.CategorizeBMI(*m.BMI)
		latest.BMICategory = &c
	}
	if m.BodyFat != nil {
		c := health.CategorizeBodyFat(*m.BodyFat, string(m.Gender))
		latest.BodyFatCategory = &c
	}
	return latest
}

func (s *Service) Delete(ctx context.Context, userID, id int64) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurements.delete")
	span.SetAttributes(attribute.Int64("measurement.id", id))
	defer tracing.EndSpanWithErrCheck(span, &err)

	removed := false
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		u.BodyMeasurements, removed = s.store.Remove(u.BodyMeasurements, id)
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
