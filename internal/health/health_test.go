package health

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBMI(t *testing.T) {
	bmi, ok := BMI(70, 175)
	require.True(t, ok)
	assert.Equal(t, 22.9, bmi)

	for _, tc := range []struct{ w, h float64 }{
		{0, 175}, {70, 0}, {-1, 175}, {70, -175}, {0, 0},
	} {
		_, ok := BMI(tc.w, tc.h)
		assert.False(t, ok, "w=%v h=%v", tc.w, tc.h)
	}
}

func TestBMI_FormulaForPositiveInputs(t *testing.T) {
	for i := 0; i < 200; i++ {
		w := gofakeit.Float64Range(1, 300)
		h := gofakeit.Float64Range(50, 250)
		bmi, ok := BMI(w, h)
		require.True(t, ok)
		expected := math.Round(w/((h/100)*(h/100))*10) / 10
		assert.Equal(t, expected, bmi)
	}
}

func TestBMR(t *testing.T) {
	bmr, ok := BMR(75, 180, 25, "male")
	require.True(t, ok)
	assert.Equal(t, int(math.Round(88.362+13.397*75+4.799*180-5.677*25)), bmr)
	assert.Equal(t, 1815, bmr)

	bmr, ok = BMR(60, 165, 30, "female")
	require.True(t, ok)
	assert.Equal(t, 1384, bmr)

	// anything but "male" uses the female coefficients
	other, ok := BMR(60, 165, 30, "prefer-not-to-say")
	require.True(t, ok)
	assert.Equal(t, bmr, other)

	_, ok = BMR(75, 180, 0, "male")
	assert.False(t, ok)
	_, ok = BMR(0, 180, 25, "male")
	assert.False(t, ok)
	_, ok = BMR(75, 0, 25, "male")
	assert.False(t, ok)
}

func TestTDEE(t *testing.T) {
	bmr, ok := BMR(70, 175, 30, "male")
	require.True(t, ok)
	assert.Equal(t, 1696, bmr)

	testCases := map[string]float64{
		"sedentary":  1.2,
		"light":      1.375,
		"moderate":   1.55,
		"active":     1.725,
		"veryActive": 1.9,
		"couch":      1.55,
		"":           1.55,
	}
	for level, multiplier := range testCases {
		tdee, ok := TDEE(70, 175, 30, "male", level)
		require.True(t, ok)
		assert.Equal(t, int(math.Round(float64(bmr)*multiplier)), tdee, level)
	}

	_, ok = TDEE(70, 175, 0, "male", "active")
	assert.False(t, ok)
}

func TestBodyFat_Male(t *testing.T) {
	bf, ok := BodyFat(BodyFatInput{WeightKg: 70, WaistCm: 80, NeckCm: 38, HeightCm: 175, Age: 30, Gender: "male"})
	require.True(t, ok)
	assert.Equal(t, 12.9, bf)
}

func TestBodyFat_Female(t *testing.T) {
	bf, ok := BodyFat(BodyFatInput{WeightKg: 60, WaistCm: 80, NeckCm: 34, HipsCm: 95, HeightCm: 165, Age: 30, Gender: "female"})
	require.True(t, ok)
	assert.Equal(t, 28.9, bf)
}

func TestBodyFat_FemaleHipsFallsBackToWaist(t *testing.T) {
	withoutHips, ok := BodyFat(BodyFatInput{WeightKg: 60, WaistCm: 80, NeckCm: 34, HeightCm: 165, Age: 30, Gender: "female"})
	require.True(t, ok)
	withWaistAsHips, ok := BodyFat(BodyFatInput{WeightKg: 60, WaistCm: 80, NeckCm: 34, HipsCm: 80, HeightCm: 165, Age: 30, Gender: "female"})
	require.True(t, ok)

	assert.Equal(t, withWaistAsHips, withoutHips)
	assert.Equal(t, 21.1, withoutHips)
}

func TestBodyFat_FlooredAtZero(t *testing.T) {
	// a very large neck relative to waist drives the estimate below zero
	bf, ok := BodyFat(BodyFatInput{WeightKg: 70, WaistCm: 60, NeckCm: 58, HeightCm: 200, Age: 30, Gender: "male"})
	require.True(t, ok)
	assert.Equal(t, 0.0, bf)
}

func TestBodyFat_Unavailable(t *testing.T) {
	base := BodyFatInput{WeightKg: 70, WaistCm: 80, NeckCm: 38, HeightCm: 175, Age: 30, Gender: "male"}

	for name, modify := range map[string]func(in *BodyFatInput){
		"weight": func(in *BodyFatInput) { in.WeightKg = 0 },
		"waist":  func(in *BodyFatInput) { in.WaistCm = 0 },
		"neck":   func(in *BodyFatInput) { in.NeckCm = 0 },
		"height": func(in *BodyFatInput) { in.HeightCm = 0 },
		"age":    func(in *BodyFatInput) { in.Age = 0 },
		// waist - neck < 0 has no logarithm
		"neck over waist": func(in *BodyFatInput) { in.NeckCm = 90 },
	} {
		in := base
		modify(&in)
		_, ok := BodyFat(in)
		assert.False(t, ok, name)
	}
}

func TestCategorizeBMI(t *testing.T) {
	assert.Equal(t, BMIUnderweight, CategorizeBMI(18.4))
	assert.Equal(t, BMINormal, CategorizeBMI(18.5))
	assert.Equal(t, BMINormal, CategorizeBMI(24.9))
	assert.Equal(t, BMIOverweight, CategorizeBMI(25))
	assert.Equal(t, BMIOverweight, CategorizeBMI(29.9))
	assert.Equal(t, BMIObese, CategorizeBMI(30))
	assert.Equal(t, "Normal weight", string(CategorizeBMI(22.9)))
}

func TestCategorizeBodyFat(t *testing.T) {
	assert.Equal(t, BodyFatEssential, CategorizeBodyFat(0, "male"))
	assert.Equal(t, BodyFatEssential, CategorizeBodyFat(5.9, "male"))
	assert.Equal(t, BodyFatAthletic, CategorizeBodyFat(6, "male"))
	assert.Equal(t, BodyFatFitness, CategorizeBodyFat(14, "male"))
	assert.Equal(t, BodyFatAverage, CategorizeBodyFat(18, "male"))
	assert.Equal(t, BodyFatObese, CategorizeBodyFat(25, "male"))

	assert.Equal(t, BodyFatEssential, CategorizeBodyFat(13.9, "female"))
	assert.Equal(t, BodyFatAthletic, CategorizeBodyFat(14, "female"))
	assert.Equal(t, BodyFatFitness, CategorizeBodyFat(21, "female"))
	assert.Equal(t, BodyFatAverage, CategorizeBodyFat(25, "female"))
	assert.Equal(t, BodyFatObese, CategorizeBodyFat(32, "other"))
}

func TestCompute(t *testing.T) {
	d := Compute(MeasurementInput{
		WeightKg:      70,
		HeightCm:      175,
		Age:           30,
		Gender:        "male",
		WaistCm:       80,
		NeckCm:        38,
		ActivityLevel: "moderate",
	})
	require.NotNil(t, d.BMI)
	require.NotNil(t, d.BMR)
	require.NotNil(t, d.TDEE)
	require.NotNil(t, d.BodyFat)
	assert.Equal(t, 22.9, *d.BMI)
	assert.Equal(t, 1696, *d.BMR)
	assert.Equal(t, 2629, *d.TDEE)
	assert.Equal(t, 12.9, *d.BodyFat)

	d = Compute(MeasurementInput{WeightKg: 70, HeightCm: 175})
	require.NotNil(t, d.BMI)
	assert.Nil(t, d.BMR)
	assert.Nil(t, d.TDEE)
	assert.Nil(t, d.BodyFat)
}
