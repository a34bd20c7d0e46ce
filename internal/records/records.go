package records

import (
	"fmt"
	"slices"
	"strings"

	"github.com/2beens/elitefitness/internal/fitness"
)

const (
	LongestWorkoutExercise = "Longest Workout"
	// workouts longer than this (minutes) produce a Longest Workout record
	LongestWorkoutThreshold = 60
)

var CommonExercises = []string{
	"Bench Press", "Squat", "Deadlift", "Pull-ups", "Push-ups",
	"Plank", "Running 5K", "Running 10K", "Bicep Curls", "Shoulder Press",
}

var (
	strengthUnits  = []fitness.RecordUnit{fitness.UnitKg, fitness.UnitLbs, fitness.UnitReps}
	enduranceUnits = []fitness.RecordUnit{fitness.UnitMinutes, fitness.UnitSeconds, fitness.UnitKm, fitness.UnitMiles}
	bodyweightKeys = []string{"push", "pull", "plank"}
)

// Categories groups records for display. A record can be in more than one group,
// e.g. Push-ups in reps is both strength and bodyweight.
type Categories struct {
	Strength   []fitness.PersonalRecord `json:"strength"`
	Endurance  []fitness.PersonalRecord `json:"endurance"`
	Bodyweight []fitness.PersonalRecord `json:"bodyweight"`
}

func Categorize(records []fitness.PersonalRecord) Categories {
	c := Categories{
		Strength:   []fitness.PersonalRecord{},
		Endurance:  []fitness.PersonalRecord{},
		Bodyweight: []fitness.PersonalRecord{},
	}
	for _, r := range records {
		if slices.Contains(strengthUnits, r.Unit) {
			c.Strength = append(c.Strength, r)
		}
		if slices.Contains(enduranceUnits, r.Unit) {
			c.Endurance = append(c.Endurance, r)
		}
		if isBodyweight(r.Exercise) {
			c.Bodyweight = append(c.Bodyweight, r)
		}
	}
	return c
}

func isBodyweight(exercise string) bool {
	exercise = strings.ToLower(exercise)
	for _, key := range bodyweightKeys {
		if strings.Contains(exercise, key) {
			return true
		}
	}
	return false
}

// Detect derives Longest Workout records from workouts, skipping workouts that
// already produced one. The result keeps the workouts order.
func Detect(workouts []fitness.Workout, existing []fitness.PersonalRecord) []fitness.PersonalRecord {
	seen := make(map[int64]bool, len(existing))
	for _, r := range existing {
		if r.SourceWorkoutID != nil {
			seen[*r.SourceWorkoutID] = true
		}
	}

	var detected []fitness.PersonalRecord
	for _, w := range workouts {
		if w.Duration <= LongestWorkoutThreshold || seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		sourceID := w.ID
		detected = append(detected, fitness.PersonalRecord{
			Exercise:        LongestWorkoutExercise,
			Value:           float64(w.Duration),
			Unit:            fitness.UnitMinutes,
			Date:            w.Date,
			Notes:           fmt.Sprintf("Auto-detected from %s", w.Name),
			AutoDetected:    true,
			SourceWorkoutID: &sourceID,
		})
	}
	return detected
}
