package fitness_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/elitefitness/internal/fitness"
)

func TestWorkout_Validate(t *testing.T) {
	today := fitness.NewDate(2026, time.October, 16)
	valid := fitness.Workout{
		Name:     "Run",
		Duration: 30,
		Calories: 300,
		Type:     fitness.WorkoutTypeCardio,
		Date:     today,
	}
	require.NoError(t, valid.Validate(today))

	testCases := []struct {
		name   string
		modify func(w *fitness.Workout)
		field  string
	}{
		{"EmptyName", func(w *fitness.Workout) { w.Name = "  " }, "name"},
		{"ZeroDuration", func(w *fitness.Workout) { w.Duration = 0 }, "duration"},
		{"NegativeCalories", func(w *fitness.Workout) { w.Calories = -1 }, "calories"},
		{"UnknownType", func(w *fitness.Workout) { w.Type = "swimming" }, "type"},
		{"MissingDate", func(w *fitness.Workout) { w.Date = fitness.Date{} }, "date"},
		{"FutureDate", func(w *fitness.Workout) { w.Date = today.AddDays(1) }, "date"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := valid
			tc.modify(&w)
			err := w.Validate(today)
			require.Error(t, err)
			assert.ErrorIs(t, err, fitness.ErrValidation)

			var vErr *fitness.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestBodyMeasurement_Validate(t *testing.T) {
	today := fitness.NewDate(2026, time.October, 16)

	m := fitness.BodyMeasurement{Date: today, Weight: 70, Height: 175}
	assert.NoError(t, m.Validate(today))

	// raw inputs are optional
	assert.NoError(t, fitness.BodyMeasurement{Date: today}.Validate(today))

	m.Waist = -3
	assert.ErrorIs(t, m.Validate(today), fitness.ErrValidation)

	m.Waist = 0
	m.Date = today.AddDays(2)
	assert.ErrorIs(t, m.Validate(today), fitness.ErrValidation)
}

func TestBodyMeasurement_Validate_FirstNegativeFieldReported(t *testing.T) {
	today := fitness.NewDate(2026, time.October, 16)
	m := fitness.BodyMeasurement{Date: today, Weight: -70, Waist: -3, Neck: -1}

	for range 20 {
		var validationErr *fitness.ValidationError
		require.ErrorAs(t, m.Validate(today), &validationErr)
		assert.Equal(t, "weight", validationErr.Field)
	}

	m.Weight = 70
	var validationErr *fitness.ValidationError
	require.ErrorAs(t, m.Validate(today), &validationErr)
	assert.Equal(t, "waist", validationErr.Field)
}

func TestPersonalRecord_Validate(t *testing.T) {
	today := fitness.NewDate(2026, time.October, 16)
	r := fitness.PersonalRecord{Exercise: "Bench Press", Value: 100, Unit: fitness.UnitKg, Date: today}
	assert.NoError(t, r.Validate(today))

	r.Unit = "stones"
	assert.ErrorIs(t, r.Validate(today), fitness.ErrValidation)

	r.Unit = fitness.UnitKg
	r.Value = 0
	assert.ErrorIs(t, r.Validate(today), fitness.ErrValidation)
}

func TestProgressPhoto_Validate(t *testing.T) {
	today := fitness.NewDate(2026, time.October, 16)
	p := fitness.ProgressPhoto{ImageRef: "blob:abc", Category: fitness.PhotoFront, Date: today}
	assert.NoError(t, p.Validate(today))

	p.Category = "top"
	assert.ErrorIs(t, p.Validate(today), fitness.ErrValidation)

	p.Category = fitness.PhotoFront
	p.ImageRef = ""
	assert.ErrorIs(t, p.Validate(today), fitness.ErrValidation)
}

func TestGoals_MergeAndValidate(t *testing.T) {
	goals := fitness.DefaultGoals()
	assert.Equal(t, fitness.Goals{Daily: 30, Weekly: 150, Calories: 500, Steps: 10000}, goals)

	weekly := 200
	merged := goals.Merge(fitness.GoalsPatch{Weekly: &weekly})
	assert.Equal(t, fitness.Goals{Daily: 30, Weekly: 200, Calories: 500, Steps: 10000}, merged)
	assert.NoError(t, merged.Validate())

	negative := -5
	assert.ErrorIs(t, goals.Merge(fitness.GoalsPatch{Steps: &negative}).Validate(), fitness.ErrValidation)
}

func TestProfile_MergeAndValidate(t *testing.T) {
	p := fitness.Profile{Name: "Ana", Age: 30}
	name := "  Ana Maria "
	weight := 61.5
	merged := p.Merge(fitness.ProfilePatch{Name: &name, Weight: &weight})
	assert.Equal(t, "Ana Maria", merged.Name)
	assert.Equal(t, 61.5, merged.Weight)
	assert.Equal(t, 30, merged.Age)
	assert.NoError(t, merged.Validate())

	empty := ""
	assert.ErrorIs(t, p.Merge(fitness.ProfilePatch{Name: &empty}).Validate(), fitness.ErrValidation)
}
