package health

type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal weight"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// CategorizeBMI puts boundary values into the higher category.
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

type BodyFatCategory string

const (
	BodyFatEssential BodyFatCategory = "Essential fat"
	BodyFatAthletic  BodyFatCategory = "Athletic"
	BodyFatFitness   BodyFatCategory = "Fitness"
	BodyFatAverage   BodyFatCategory = "Average"
	BodyFatObese     BodyFatCategory = "Obese"
)

type bodyFatThresholds struct {
	essential, athletic, fitness, average float64
}

var (
	maleBodyFatThresholds  = bodyFatThresholds{6, 14, 18, 25}
	otherBodyFatThresholds = bodyFatThresholds{14, 21, 25, 32}
)

func CategorizeBodyFat(bodyFat float64, gender string) BodyFatCategory {
	t := otherBodyFatThresholds
	if gender == genderMale {
		t = maleBodyFatThresholds
	}

	switch {
	case bodyFat < t.essential:
		return BodyFatEssential
	case bodyFat < t.athletic:
		return BodyFatAthletic
	case bodyFat < t.fitness:
		return BodyFatFitness
	case bodyFat < t.average:
		return BodyFatAverage
	default:
		return BodyFatObese
	}
}
