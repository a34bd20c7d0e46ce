package analytics

import (
	"fmt"
	"math"

	"github.com/2beens/elitefitness/internal/fitness"
)

type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case RangeWeek, RangeMonth, RangeYear:
		return r, nil
	default:
		return "", fmt.Errorf("unknown range: %q", s)
	}
}

// Days is the length of the range window in days.
func (r Range) Days() int {
	switch r {
	case RangeMonth:
		return 30
	case RangeYear:
		return 365
	default:
		return 7
	}
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type Progress struct {
	Trend      Trend   `json:"trend"`
	Percentage float64 `json:"percentage"`
}

type Summary struct {
	Range              Range                       `json:"range"`
	TotalWorkouts      int                         `json:"totalWorkouts"`
	TotalMinutes       int                         `json:"totalMinutes"`
	TotalCalories      int                         `json:"totalCalories"`
	AvgWorkoutDuration int                         `json:"avgWorkoutDuration"`
	WorkoutTypes       map[fitness.WorkoutType]int `json:"workoutTypes"`
	Consistency        int                         `json:"consistency"`
	Progress           Progress                    `json:"progress"`
	Buckets            []Bucket                    `json:"buckets"`
}

// Window keeps the workouts dated today - range days or later, preserving order.
func Window(workouts []fitness.Workout, r Range, today fitness.Date) []fitness.Workout {
	start := today.AddDays(-r.Days())
	windowed := make([]fitness.Workout, 0, len(workouts))
	for _, w := range workouts {
		if !w.Date.Before(start) {
			windowed = append(windowed, w)
		}
	}
	return windowed
}

func TypeDistribution(workouts []fitness.Workout) map[fitness.WorkoutType]int {
	types := make(map[fitness.WorkoutType]int)
	for _, w := range workouts {
		types[w.Type]++
	}
	return types
}

// Consistency is distinct workout days / min(range days, workout count) in percent.
// The denominator can be smaller than the number of days in the range, so the
// score is not capped at 100. Zero workouts give 0.
func Consistency(workouts []fitness.Workout, r Range) int {
	if len(workouts) == 0 {
		return 0
	}
	days := make(map[string]struct{}, len(workouts))
	for _, w := range workouts {
		days[w.Date.String()] = struct{}{}
	}
	denominator := min(r.Days(), len(workouts))
	return int(math.Round(float64(len(days)) / float64(denominator) * 100))
}

// CalculateProgress compares the average duration of the first half of the list
// (the most recent workouts, as they are stored newest first) with the rest.
func CalculateProgress(workouts []fitness.Workout) Progress {
	if len(workouts) < 2 {
		return Progress{Trend: TrendStable, Percentage: 0}
	}

	half := len(workouts) / 2
	recentAvg := avgDuration(workouts[:half])
	olderAvg := avgDuration(workouts[half:])

	percentage := 100.0
	if olderAvg > 0 {
		percentage = (recentAvg - olderAvg) / olderAvg * 100
	}

	trend := TrendStable
	switch {
	case percentage > 0:
		trend = TrendUp
	case percentage < 0:
		trend = TrendDown
	}

	return Progress{
		Trend:      trend,
		Percentage: math.Abs(percentage),
	}
}

func avgDuration(workouts []fitness.Workout) float64 {
	if len(workouts) == 0 {
		return 0
	}
	total := 0
	for _, w := range workouts {
		total += w.Duration
	}
	return float64(total) / float64(len(workouts))
}

func totals(workouts []fitness.Workout) (minutes, calories int) {
	for _, w := range workouts {
		minutes += w.Duration
		calories += w.Calories
	}
	return minutes, calories
}

// Summarize recomputes every aggregate for the range from scratch.
func Summarize(workouts []fitness.Workout, r Range, today fitness.Date) Summary {
	windowed := Window(workouts, r, today)
	minutes, calories := totals(windowed)

	avg := 0
	if len(windowed) > 0 {
		avg = int(math.Round(float64(minutes) / float64(len(windowed))))
	}

	return Summary{
		Range:              r,
		TotalWorkouts:      len(windowed),
		TotalMinutes:       minutes,
		TotalCalories:      calories,
		AvgWorkoutDuration: avg,
		WorkoutTypes:       TypeDistribution(windowed),
		Consistency:        Consistency(windowed, r),
		Progress:           CalculateProgress(windowed),
		Buckets:            Buckets(workouts, r, today),
	}
}
