package exercises

import (
	"slices"
	"strings"

	"github.com/2beens/elitefitness/internal/fitness"
)

var Category = struct {
	Chest     string
	Back      string
	Legs      string
	Shoulders string
	Arms      string
	Core      string
	Cardio    string
	Yoga      string
}{
	Chest:     "chest",
	Back:      "back",
	Legs:      "legs",
	Shoulders: "shoulders",
	Arms:      "arms",
	Core:      "core",
	Cardio:    "cardio",
	Yoga:      "yoga",
}

var Categories = []string{
	Category.Chest,
	Category.Back,
	Category.Legs,
	Category.Shoulders,
	Category.Arms,
	Category.Core,
	Category.Cardio,
	Category.Yoga,
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

type Exercise struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description"`
	Muscles     []string   `json:"muscles"`
	Equipment   []string   `json:"equipment"`

	// rough estimate, used to prefill the workout form
	CaloriesPerMinute int `json:"caloriesPerMinute"`

	// workout type to log the exercise with
	WorkoutType fitness.WorkoutType `json:"workoutType"`
}

var catalog = []Exercise{
	{
		ID:                1,
		Name:              "Bench Press",
		Category:          Category.Chest,
		Type:              "strength",
		Difficulty:        Intermediate,
		Description:       "Classic chest exercise using barbell",
		Muscles:           []string{"Pectorals", "Triceps", "Shoulders"},
		Equipment:         []string{"Barbell", "Bench"},
		CaloriesPerMinute: 8,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                2,
		Name:              "Running",
		Category:          Category.Cardio,
		Type:              "cardio",
		Difficulty:        Beginner,
		Description:       "Cardiovascular endurance training",
		Muscles:           []string{"Legs", "Core", "Cardiovascular"},
		Equipment:         []string{"None"},
		CaloriesPerMinute: 12,
		WorkoutType:       fitness.WorkoutTypeCardio,
	},
	{
		ID:                3,
		Name:              "Push-ups",
		Category:          Category.Chest,
		Type:              "bodyweight",
		Difficulty:        Beginner,
		Description:       "Bodyweight chest and arm exercise",
		Muscles:           []string{"Pectorals", "Triceps", "Shoulders", "Core"},
		Equipment:         []string{"None"},
		CaloriesPerMinute: 7,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                4,
		Name:              "Squats",
		Category:          Category.Legs,
		Type:              "strength",
		Difficulty:        Beginner,
		Description:       "Fundamental leg exercise",
		Muscles:           []string{"Quads", "Glutes", "Hamstrings"},
		Equipment:         []string{"Barbell", "Bodyweight"},
		CaloriesPerMinute: 6,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                5,
		Name:              "Plank",
		Category:          Category.Core,
		Type:              "bodyweight",
		Difficulty:        Beginner,
		Description:       "Core stability exercise",
		Muscles:           []string{"Abs", "Core", "Shoulders"},
		Equipment:         []string{"None"},
		CaloriesPerMinute: 3,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                6,
		Name:              "Deadlift",
		Category:          Category.Back,
		Type:              "strength",
		Difficulty:        Advanced,
		Description:       "Full posterior chain lift from the floor",
		Muscles:           []string{"Lower Back", "Glutes", "Hamstrings", "Traps"},
		Equipment:         []string{"Barbell"},
		CaloriesPerMinute: 9,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                7,
		Name:              "Pull-ups",
		Category:          Category.Back,
		Type:              "bodyweight",
		Difficulty:        Intermediate,
		Description:       "Vertical pull hanging from a bar",
		Muscles:           []string{"Lats", "Biceps", "Rear Delts"},
		Equipment:         []string{"Pull-up Bar"},
		CaloriesPerMinute: 8,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                8,
		Name:              "Overhead Press",
		Category:          Category.Shoulders,
		Type:              "strength",
		Difficulty:        Intermediate,
		Description:       "Standing barbell press overhead",
		Muscles:           []string{"Shoulders", "Triceps", "Upper Chest"},
		Equipment:         []string{"Barbell"},
		CaloriesPerMinute: 7,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                9,
		Name:              "Bicep Curls",
		Category:          Category.Arms,
		Type:              "strength",
		Difficulty:        Beginner,
		Description:       "Isolation exercise for the biceps",
		Muscles:           []string{"Biceps", "Forearms"},
		Equipment:         []string{"Dumbbells"},
		CaloriesPerMinute: 4,
		WorkoutType:       fitness.WorkoutTypeStrength,
	},
	{
		ID:                10,
		Name:              "Sun Salutation",
		Category:          Category.Yoga,
		Type:              "flexibility",
		Difficulty:        Beginner,
		Description:       "Flowing sequence of yoga poses",
		Muscles:           []string{"Full Body", "Hamstrings", "Shoulders"},
		Equipment:         []string{"Yoga Mat"},
		CaloriesPerMinute: 4,
		WorkoutType:       fitness.WorkoutTypeYoga,
	},
	{
		ID:                11,
		Name:              "Burpees",
		Category:          Category.Cardio,
		Type:              "hiit",
		Difficulty:        Intermediate,
		Description:       "Explosive full body conditioning movement",
		Muscles:           []string{"Full Body", "Cardiovascular"},
		Equipment:         []string{"None"},
		CaloriesPerMinute: 10,
		WorkoutType:       fitness.WorkoutTypeHIIT,
	},
}

// Filter returns the exercises of the category ("" or "all" for every category)
// whose name, description or muscles contain query, ignoring case.
func Filter(category, query string) []Exercise {
	category = strings.ToLower(strings.TrimSpace(category))
	query = strings.ToLower(strings.TrimSpace(query))

	found := []Exercise{}
	for _, ex := range catalog {
		if category != "" && category != "all" && ex.Category != category {
			continue
		}
		if query != "" && !ex.matches(query) {
			continue
		}
		found = append(found, ex)
	}
	return found
}

func (ex Exercise) matches(query string) bool {
	if strings.Contains(strings.ToLower(ex.Name), query) ||
		strings.Contains(strings.ToLower(ex.Description), query) {
		return true
	}
	return slices.ContainsFunc(ex.Muscles, func(m string) bool {
		return strings.Contains(strings.ToLower(m), query)
	})
}

func ValidCategory(category string) bool {
	return category == "" || category == "all" || slices.Contains(Categories, category)
}
