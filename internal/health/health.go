// Package health computes body metrics from raw measurements. All functions are
// pure; a false second return value means the metric is not available for the
// given inputs.
package health

import (
	"math"
)

const genderMale = "male"

var activityMultipliers = map[string]float64{
	"sedentary":  1.2,
	"light":      1.375,
	"moderate":   1.55,
	"active":     1.725,
	"veryActive": 1.9,
}

const defaultActivityMultiplier = 1.55

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BMI is weight / (height in meters)^2, rounded to one decimal.
func BMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	heightM := heightCm / 100
	return roundTo1(weightKg / (heightM * heightM)), true
}

// BMR uses the revised Harris-Benedict equation. Any gender other than
// "male" gets the female coefficients.
func BMR(weightKg, heightCm float64, age int, gender string) (int, bool) {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0, false
	}

	a := float64(age)
	var bmr float64
	if gender == genderMale {
		bmr = 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*a
	} else {
		bmr = 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*a
	}
	return int(math.Round(bmr)), true
}

// ActivityMultiplier falls back to the moderate multiplier for unknown levels.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultActivityMultiplier
}

func TDEE(weightKg, heightCm float64, age int, gender, activityLevel string) (int, bool) {
	bmr, ok := BMR(weightKg, heightCm, age, gender)
	if !ok {
		return 0, false
	}
	return int(math.Round(float64(bmr) * ActivityMultiplier(activityLevel))), true
}

type BodyFatInput struct {
	WeightKg float64
	WaistCm  float64
	NeckCm   float64
	HipsCm   float64
	HeightCm float64
	Age      int
	Gender   string
}

// BodyFat estimates body fat % with the US Navy method. For non male genders a
// missing hips value is replaced with the waist value. The result is floored at 0.
func BodyFat(in BodyFatInput) (float64, bool) {
	if in.WeightKg <= 0 || in.WaistCm <= 0 || in.NeckCm <= 0 || in.HeightCm <= 0 || in.Age <= 0 {
		return 0, false
	}

	var bodyFat float64
	if in.Gender == genderMale {
		bodyFat = 495/(1.0324-0.19077*math.Log10(in.WaistCm-in.NeckCm)+0.15456*math.Log10(in.HeightCm)) - 450
	} else {
		hips := in.HipsCm
		if hips <= 0 {
			hips = in.WaistCm
		}
		bodyFat = 495/(1.29579-0.35004*math.Log10(in.WaistCm+hips-in.NeckCm)+0.22100*math.Log10(in.HeightCm)) - 450
	}

	// log10 of a non positive circumference difference
	if math.IsNaN(bodyFat) || math.IsInf(bodyFat, 0) {
		return 0, false
	}

	return roundTo1(math.Max(0, bodyFat)), true
}
