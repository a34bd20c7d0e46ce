package fitness

import (
	"strings"
)

func validateDate(field string, d Date, today Date) error {
	if d.IsZero() {
		return NewValidationError(field, "required")
	}
	if d.After(today) {
		return NewValidationError(field, "must not be in the future")
	}
	return nil
}

func validateNonNegative(field string, v float64) error {
	if v < 0 {
		return NewValidationError(field, "must not be negative")
	}
	return nil
}

// Validate checks a workout before it is stored.
func (w Workout) Validate(today Date) error {
	if strings.TrimSpace(w.Name) == "" {
		return NewValidationError("name", "required")
	}
	if w.Duration <= 0 {
		return NewValidationError("duration", "must be a positive number of minutes")
	}
	if w.Calories <= 0 {
		return NewValidationError("calories", "must be positive")
	}
	if !w.Type.Valid() {
		return NewValidationError("type", "unknown workout type "+string(w.Type))
	}
	return validateDate("date", w.Date, today)
}

func (m BodyMeasurement) Validate(today Date) error {
	if err := validateDate("date", m.Date, today); err != nil {
		return err
	}
	if m.Age < 0 {
		return NewValidationError("age", "must not be negative")
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"weight", m.Weight},
		{"height", m.Height},
		{"chest", m.Chest},
		{"waist", m.Waist},
		{"hips", m.Hips},
		{"arms", m.Arms},
		{"thighs", m.Thighs},
		{"neck", m.Neck},
	} {
		if err := validateNonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (r PersonalRecord) Validate(today Date) error {
	if strings.TrimSpace(r.Exercise) == "" {
		return NewValidationError("exercise", "required")
	}
	if r.Value <= 0 {
		return NewValidationError("value", "must be positive")
	}
	if !r.Unit.Valid() {
		return NewValidationError("unit", "unknown unit "+string(r.Unit))
	}
	return validateDate("date", r.Date, today)
}

func (p ProgressPhoto) Validate(today Date) error {
	if p.ImageRef == "" {
		return NewValidationError("image", "required")
	}
	if !p.Category.Valid() {
		return NewValidationError("category", "unknown category "+string(p.Category))
	}
	return validateDate("date", p.Date, today)
}

func (g Goals) Validate() error {
	switch {
	case g.Daily < 0:
		return NewValidationError("daily", "must not be negative")
	case g.Weekly < 0:
		return NewValidationError("weekly", "must not be negative")
	case g.Calories < 0:
		return NewValidationError("calories", "must not be negative")
	case g.Steps < 0:
		return NewValidationError("steps", "must not be negative")
	}
	return nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "required")
	}
	if p.Age < 0 {
		return NewValidationError("age", "must not be negative")
	}
	if err := validateNonNegative("weight", p.Weight); err != nil {
		return err
	}
	return validateNonNegative("height", p.Height)
}
