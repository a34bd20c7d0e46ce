package export

import (
	"fmt"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary      = "Summary"
	SheetWorkouts     = "Workouts"
	SheetMeasurements = "Measurements"
	SheetRecords      = "Records"
)

// Workbook builds the xlsx export of a single user: a summary sheet followed by
// one sheet per collection.
func Workbook(user fitness.User, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename first sheet: %w", err)
	}
	for _, sheet := range []string{SheetWorkouts, SheetMeasurements, SheetRecords} {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	steps := []struct {
		name string
		fill func(*excelize.File, int) error
	}{
		{SheetSummary, func(f *excelize.File, style int) error { return summarySheet(f, style, user, now) }},
		{SheetWorkouts, func(f *excelize.File, style int) error { return workoutsSheet(f, style, user.Workouts) }},
		{SheetMeasurements, func(f *excelize.File, style int) error { return measurementsSheet(f, style, user.BodyMeasurements) }},
		{SheetRecords, func(f *excelize.File, style int) error { return recordsSheet(f, style, user.PersonalRecords) }},
	}
	for _, step := range steps {
		if err := step.fill(f, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("fill sheet %s: %w", step.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// FileName is the suggested download name of the user's export.
func FileName(user fitness.User, now time.Time) string {
	return fmt.Sprintf("elite-fitness-%d-%s.xlsx", user.ID, fitness.DateOf(now))
}

func summarySheet(f *excelize.File, headerStyle int, user fitness.User, now time.Time) error {
	sheet := SheetSummary
	minutes, calories := 0, 0
	for _, w := range user.Workouts {
		minutes += w.Duration
		calories += w.Calories
	}

	rows := [][]any{
		{"Name", user.Profile.Name},
		{"Email", user.Email},
		{"Member since", user.JoinedDate.Format(fitness.DateLayout)},
		{"Exported at", now.UTC().Format(time.RFC3339)},
		{"Workouts", len(user.Workouts)},
		{"Total minutes", minutes},
		{"Total calories", calories},
		{"Body measurements", len(user.BodyMeasurements)},
		{"Personal records", len(user.PersonalRecords)},
		{"Progress photos", len(user.ProgressPhotos)},
	}
	if err := writeRows(f, sheet, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "B", 24)
}

func workoutsSheet(f *excelize.File, headerStyle int, workouts []fitness.Workout) error {
	rows := make([][]any, 0, len(workouts))
	for _, w := range workouts {
		rows = append(rows, []any{w.ID, w.Date.String(), w.Name, string(w.Type), w.Duration, w.Calories})
	}
	return writeTable(f, SheetWorkouts, headerStyle,
		[]string{"ID", "Date", "Name", "Type", "Duration (min)", "Calories"}, rows)
}

func measurementsSheet(f *excelize.File, headerStyle int, measurements []fitness.BodyMeasurement) error {
	rows := make([][]any, 0, len(measurements))
	for _, m := range measurements {
		rows = append(rows, []any{
			m.ID, m.Date.String(), m.Weight, m.Height, m.Age, string(m.Gender),
			m.Chest, m.Waist, m.Hips, m.Arms, m.Thighs, m.Neck, string(m.ActivityLevel),
			optional(m.BMI), optional(m.BMR), optional(m.TDEE), optional(m.BodyFat), m.Notes,
		})
	}
	return writeTable(f, SheetMeasurements, headerStyle, []string{
		"ID", "Date", "Weight (kg)", "Height (cm)", "Age", "Gender",
		"Chest", "Waist", "Hips", "Arms", "Thighs", "Neck", "Activity",
		"BMI", "BMR", "TDEE", "Body fat %", "Notes",
	}, rows)
}

func recordsSheet(f *excelize.File, headerStyle int, records []fitness.PersonalRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		source := "manual"
		if r.AutoDetected {
			source = "auto-detected"
		}
		rows = append(rows, []any{r.ID, r.Date.String(), r.Exercise, r.Value, string(r.Unit), source, r.Notes})
	}
	return writeTable(f, SheetRecords, headerStyle,
		[]string{"ID", "Date", "Exercise", "Value", "Unit", "Source", "Notes"}, rows)
}

// writeTable writes the header row, the data rows below it and freezes the header.
func writeTable(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := writeRows(f, sheet, 1, [][]any{header}); err != nil {
		return err
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("header coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := writeRows(f, sheet, 2, rows); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeRows(f *excelize.File, sheet string, firstRow int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, firstRow+i)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", firstRow+i, err)
		}
	}
	return nil
}

// optional turns a missing derived value into an empty cell.
func optional[T int | float64](v *T) any {
	if v == nil {
		return ""
	}
	return *v
}
