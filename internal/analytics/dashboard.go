package analytics

import (
	"github.com/2beens/elitefitness/internal/fitness"
)

type GoalProgress struct {
	Minutes  int `json:"minutes"`
	Goal     int `json:"goal"`
	Workouts int `json:"workouts"`
	Calories int `json:"calories"`
}

type Dashboard struct {
	Today         GoalProgress `json:"today"`
	Week          GoalProgress `json:"week"`
	TotalWorkouts int          `json:"totalWorkouts"`
	TotalCalories int          `json:"totalCalories"`
	CaloriesGoal  int          `json:"caloriesGoal"`
}

// BuildDashboard summarizes today, the last 7 days and all time against the user goals.
func BuildDashboard(workouts []fitness.Workout, goals fitness.Goals, today fitness.Date) Dashboard {
	var todays []fitness.Workout
	for _, w := range workouts {
		if w.Date.Equal(today) {
			todays = append(todays, w)
		}
	}
	todayMinutes, todayCalories := totals(todays)

	weekly := Window(workouts, RangeWeek, today)
	weekMinutes, weekCalories := totals(weekly)

	_, allCalories := totals(workouts)

	return Dashboard{
		Today: GoalProgress{
			Minutes:  todayMinutes,
			Goal:     goals.Daily,
			Workouts: len(todays),
			Calories: todayCalories,
		},
		Week: GoalProgress{
			Minutes:  weekMinutes,
			Goal:     goals.Weekly,
			Workouts: len(weekly),
			Calories: weekCalories,
		},
		TotalWorkouts: len(workouts),
		TotalCalories: allCalories,
		CaloriesGoal:  goals.Calories,
	}
}
