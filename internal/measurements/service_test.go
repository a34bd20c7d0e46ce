package measurements_test

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/health"
	"github.com/2beens/elitefitness/internal/kvstore"
	"github.com/2beens/elitefitness/internal/measurements"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2026, time.October, 16, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*measurements.Service, fitness.User, *metrics.Manager) {
	t.Helper()
	metricsManager := metrics.NewTestManager()
	roster := fitness.NewRoster(kvstore.NewMemoryStore(), fitness.NewIDGenerator(nil), metricsManager)
	user, err := roster.Create(context.Background(), func([]fitness.User) (fitness.User, error) {
		return fitness.User{
			Email:   gofakeit.Email(),
			Profile: fitness.Profile{Name: gofakeit.Name()},
		}, nil
	})
	require.NoError(t, err)

	service := measurements.NewService(roster, metricsManager)
	service.Now = func() time.Time { return testNow }
	return service, user, metricsManager
}

func TestService_AddComputesDerived(t *testing.T) {
	ctx := context.Background()
	service, user, metricsManager := setup(t)

	added, err := service.Add(ctx, user.ID, fitness.BodyMeasurement{
		Weight: 70,
		Height: 175,
		Age:    30,
		Gender: fitness.GenderMale,
		Waist:  80,
		Neck:   38,
	})
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	assert.Equal(t, "2026-10-16", added.Date.String())
	assert.Equal(t, fitness.ActivityModerate, added.ActivityLevel)

	require.NotNil(t, added.BMI)
	assert.Equal(t, 22.9, *added.BMI)
	require.NotNil(t, added.BMR)
	assert.Equal(t, 1696, *added.BMR)
	require.NotNil(t, added.TDEE)
	assert.Equal(t, 2629, *added.TDEE)
	require.NotNil(t, added.BodyFat)
	assert.Equal(t, 12.9, *added.BodyFat)

	latest, err := service.Latest(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, latest.Measurement)
	assert.Equal(t, added.ID, latest.Measurement.ID)
	require.NotNil(t, latest.BMICategory)
	assert.Equal(t, health.BMINormal, *latest.BMICategory)
	require.NotNil(t, latest.BodyFatCategory)
	assert.Equal(t, health.BodyFatAthletic, *latest.BodyFatCategory)

	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRecordMutations.WithLabelValues("measurements", "add")))
}

func TestService_UnavailableDerived(t *testing.T) {
	ctx := context.Background()
	service, user, _ := setup(t)

	// only weight known
	added, err := service.Add(ctx, user.ID, fitness.BodyMeasurement{Weight: 80, Gender: fitness.GenderFemale})
	require.NoError(t, err)
	assert.Nil(t, added.BMI)
	assert.Nil(t, added.BMR)
	assert.Nil(t, added.TDEE)
	assert.Nil(t, added.BodyFat)

	latest, err := service.Latest(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, latest.Measurement)
	assert.Nil(t, latest.BMICategory)
	assert.Nil(t, latest.BodyFatCategory)
}

func TestService_LatestIsLastAppended(t *testing.T) {
	ctx := context.Background()
	service, user, _ := setup(t)

	latest, err := service.Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, latest.Measurement)

	first, err := service.Add(ctx, user.ID, fitness.BodyMeasurement{Weight: 80, Height: 180})
	require.NoError(t, err)
	second, err := service.Add(ctx, user.ID, fitness.BodyMeasurement{
		Weight: 78, Height: 180, Date: fitness.NewDate(2026, time.September, 1),
	})
	require.NoError(t, err)

	latest, err = service.Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.Measurement.ID)

	list, err := service.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, []int64{list[0].ID, list[1].ID})

	removed, err := service.Delete(ctx, user.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	latest, err = service.Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.Measurement.ID)

	removed, err = service.Delete(ctx, user.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestService_AddInvalid(t *testing.T) {
	ctx := context.Background()
	service, user, _ := setup(t)

	_, err := service.Add(ctx, user.ID, fitness.BodyMeasurement{Weight: -1})
	assert.ErrorIs(t, err, fitness.ErrValidation)

	_, err = service.Add(ctx, user.ID, fitness.BodyMeasurement{Weight: 70, Date: fitness.NewDate(2027, time.January, 1)})
	assert.ErrorIs(t, err, fitness.ErrValidation)

	list, err := service.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
