package health

type MeasurementInput struct {
	WeightKg      float64
	HeightCm      float64
	Age           int
	Gender        string
	WaistCm       float64
	NeckCm        float64
	HipsCm        float64
	ActivityLevel string
}

// Derived holds the metrics stored alongside a measurement; nil means not available.
type Derived struct {
	BMI     *float64
	BMR     *int
	TDEE    *int
	BodyFat *float64
}

func Compute(in MeasurementInput) Derived {
	var d Derived
	if bmi, ok := BMI(in.WeightKg, in.HeightCm); ok {
		d.BMI = &bmi
	}
	if bmr, ok := BMR(in.WeightKg, in.HeightCm, in.Age, in.Gender); ok {
		d.BMR = &bmr
	}
	if tdee, ok := TDEE(in.WeightKg, in.HeightCm, in.Age, in.Gender, in.ActivityLevel); ok {
		d.TDEE = &tdee
	}
	if bodyFat, ok := BodyFat(BodyFatInput{
		WeightKg: in.WeightKg,
		WaistCm:  in.WaistCm,
		NeckCm:   in.NeckCm,
		HipsCm:   in.HipsCm,
		HeightCm: in.HeightCm,
		Age:      in.Age,
		Gender:   in.Gender,
	}); ok {
		d.BodyFat = &bodyFat
	}
	return d
}
