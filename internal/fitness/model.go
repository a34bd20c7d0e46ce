package fitness

import (
	"strings"
	"time"
)

type WorkoutType string

const (
	WorkoutTypeCardio      WorkoutType = "cardio"
	WorkoutTypeStrength    WorkoutType = "strength"
	WorkoutTypeYoga        WorkoutType = "yoga"
	WorkoutTypeSports      WorkoutType = "sports"
	WorkoutTypeHIIT        WorkoutType = "hiit"
	WorkoutTypeFlexibility WorkoutType = "flexibility"
)

var WorkoutTypes = []WorkoutType{
	WorkoutTypeCardio,
	WorkoutTypeStrength,
	WorkoutTypeYoga,
	WorkoutTypeSports,
	WorkoutTypeHIIT,
	WorkoutTypeFlexibility,
}

func (t WorkoutType) Valid() bool {
	for _, wt := range WorkoutTypes {
		if t == wt {
			return true
		}
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsMale() bool {
	return g == GenderMale
}

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryActive"
)

type RecordUnit string

const (
	UnitKg      RecordUnit = "kg"
	UnitLbs     RecordUnit = "lbs"
	UnitReps    RecordUnit = "reps"
	UnitMinutes RecordUnit = "minutes"
	UnitSeconds RecordUnit = "seconds"
	UnitKm      RecordUnit = "km"
	UnitMiles   RecordUnit = "miles"
)

var RecordUnits = []RecordUnit{UnitKg, UnitLbs, UnitReps, UnitMinutes, UnitSeconds, UnitKm, UnitMiles}

func (u RecordUnit) Valid() bool {
	for _, ru := range RecordUnits {
		if u == ru {
			return true
		}
	}
	return false
}

type PhotoCategory string

const (
	PhotoFront   PhotoCategory = "front"
	PhotoSide    PhotoCategory = "side"
	PhotoBack    PhotoCategory = "back"
	PhotoFlexed  PhotoCategory = "flexed"
	PhotoRelaxed PhotoCategory = "relaxed"
)

var PhotoCategories = []PhotoCategory{PhotoFront, PhotoSide, PhotoBack, PhotoFlexed, PhotoRelaxed}

func (c PhotoCategory) Valid() bool {
	for _, pc := range PhotoCategories {
		if c == pc {
			return true
		}
	}
	return false
}

type Goals struct {
	Daily    int `json:"daily"`
	Weekly   int `json:"weekly"`
	Calories int `json:"calories"`
	Steps    int `json:"steps"`
}

func DefaultGoals() Goals {
	return Goals{
		Daily:    30,
		Weekly:   150,
		Calories: 500,
		Steps:    10000,
	}
}

// GoalsPatch holds a partial goals update, nil fields are left untouched.
type GoalsPatch struct {
	Daily    *int `json:"daily,omitempty"`
	Weekly   *int `json:"weekly,omitempty"`
	Calories *int `json:"calories,omitempty"`
	Steps    *int `json:"steps,omitempty"`
}

func (g Goals) Merge(p GoalsPatch) Goals {
	if p.Daily != nil {
		g.Daily = *p.Daily
	}
	if p.Weekly != nil {
		g.Weekly = *p.Weekly
	}
	if p.Calories != nil {
		g.Calories = *p.Calories
	}
	if p.Steps != nil {
		g.Steps = *p.Steps
	}
	return g
}

type Profile struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Weight         float64 `json:"weight"`
	Height         float64 `json:"height"`
	Gender         Gender  `json:"gender"`
	FitnessLevel   string  `json:"fitnessLevel"`
	ProfilePicture string  `json:"profilePicture"`
}

type ProfilePatch struct {
	Name           *string  `json:"name,omitempty"`
	Age            *int     `json:"age,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	Gender         *Gender  `json:"gender,omitempty"`
	FitnessLevel   *string  `json:"fitnessLevel,omitempty"`
	ProfilePicture *string  `json:"profilePicture,omitempty"`
}

func (p Profile) Merge(patch ProfilePatch) Profile {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.FitnessLevel != nil {
		p.FitnessLevel = *patch.FitnessLevel
	}
	if patch.ProfilePicture != nil {
		p.ProfilePicture = *patch.ProfilePicture
	}
	return p
}

// User is the aggregate root: it exclusively owns its four collections.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	JoinedDate   time.Time `json:"joinedDate"`
	Profile
	Goals Goals `json:"goals"`

	Workouts         []Workout         `json:"workouts"`
	BodyMeasurements []BodyMeasurement `json:"bodyMeasurements"`
	ProgressPhotos   []ProgressPhoto   `json:"progressPhotos"`
	PersonalRecords  []PersonalRecord  `json:"personalRecords"`
}

// Public is the user without credentials, as returned to clients.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		JoinedDate: u.JoinedDate,
		Profile:    u.Profile,
		Goals:      u.Goals,
		Stats: UserStats{
			Workouts:         len(u.Workouts),
			BodyMeasurements: len(u.BodyMeasurements),
			ProgressPhotos:   len(u.ProgressPhotos),
			PersonalRecords:  len(u.PersonalRecords),
		},
	}
}

type PublicUser struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	JoinedDate time.Time `json:"joinedDate"`
	Profile
	Goals Goals     `json:"goals"`
	Stats UserStats `json:"stats"`
}

type UserStats struct {
	Workouts         int `json:"workouts"`
	BodyMeasurements int `json:"bodyMeasurements"`
	ProgressPhotos   int `json:"progressPhotos"`
	PersonalRecords  int `json:"personalRecords"`
}

type Workout struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Duration int         `json:"duration"`
	Calories int         `json:"calories"`
	Type     WorkoutType `json:"type"`
	Date     Date        `json:"date"`
}

func (w Workout) RecordID() int64 { return w.ID }

func (w Workout) WithRecordID(id int64) Workout {
	w.ID = id
	return w
}

type BodyMeasurement struct {
	ID            int64         `json:"id"`
	Date          Date          `json:"date"`
	Weight        float64       `json:"weight"`
	Height        float64       `json:"height"`
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	Chest         float64       `json:"chest"`
	Waist         float64       `json:"waist"`
	Hips          float64       `json:"hips"`
	Arms          float64       `json:"arms"`
	Thighs        float64       `json:"thighs"`
	Neck          float64       `json:"neck"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Notes         string        `json:"notes"`

	// derived at creation, nil when not available
	BMI     *float64 `json:"bmi"`
	BMR     *int     `json:"bmr"`
	TDEE    *int     `json:"tdee"`
	BodyFat *float64 `json:"bodyFat"`
}

func (m BodyMeasurement) RecordID() int64 { return m.ID }

func (m BodyMeasurement) WithRecordID(id int64) BodyMeasurement {
	m.ID = id
	return m
}

type PersonalRecord struct {
	ID           int64      `json:"id"`
	Exercise     string     `json:"exercise"`
	Value        float64    `json:"value"`
	Unit         RecordUnit `json:"unit"`
	Date         Date       `json:"date"`
	Notes        string     `json:"notes"`
	AutoDetected bool       `json:"autoDetected"`
	// set for auto detected records only
	SourceWorkoutID *int64 `json:"sourceWorkoutId,omitempty"`
}

func (r PersonalRecord) RecordID() int64 { return r.ID }

func (r PersonalRecord) WithRecordID(id int64) PersonalRecord {
	r.ID = id
	return r
}

type ProgressPhoto struct {
	ID          int64         `json:"id"`
	ImageRef    string        `json:"imageRef"`
	ContentType string        `json:"contentType"`
	Date        Date          `json:"date"`
	Category    PhotoCategory `json:"category"`
	Notes       string        `json:"notes"`
	Timestamp   time.Time     `json:"timestamp"`
}

func (p ProgressPhoto) RecordID() int64 { return p.ID }

func (p ProgressPhoto) WithRecordID(id int64) ProgressPhoto {
	p.ID = id
	return p
}

// MaxID returns the highest identifier used anywhere in the user.
func (u User) MaxID() int64 {
	maxID := u.ID
	for _, w := range u.Workouts {
		maxID = max(maxID, w.ID)
	}
	for _, m := range u.BodyMeasurements {
		maxID = max(maxID, m.ID)
	}
	for _, p := range u.ProgressPhotos {
		maxID = max(maxID, p.ID)
	}
	for _, r := range u.PersonalRecords {
		maxID = max(maxID, r.ID)
	}
	return maxID
}
