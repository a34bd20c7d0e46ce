package analytics

import (
	"github.com/2beens/elitefitness/internal/fitness"
)

type Bucket struct {
	Label     string       `json:"label"`
	FullLabel string       `json:"fullLabel"`
	Start     fitness.Date `json:"date"`
	Workouts  int          `json:"workouts"`
	Duration  int          `json:"duration"`
	Calories  int          `json:"calories"`
}

// Buckets produces one bucket per day for the trailing 7 (week) or 30 (month)
// days ending today, or one per calendar month for the trailing 12 months (year).
func Buckets(workouts []fitness.Workout, r Range, today fitness.Date) []Bucket {
	if r == RangeYear {
		return monthlyBuckets(workouts, today)
	}
	return dailyBuckets(workouts, r, today)
}

func dailyBuckets(workouts []fitness.Workout, r Range, today fitness.Date) []Bucket {
	labelLayout := "Mon 2"
	if r == RangeMonth {
		labelLayout = "Jan 2"
	}

	days := r.Days()
	buckets := make([]Bucket, 0, days)
	index := make(map[string]int, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		index[day.String()] = len(buckets)
		buckets = append(buckets, Bucket{
			Label:     day.Time().Format(labelLayout),
			FullLabel: day.Time().Format("Monday, January 2, 2006"),
			Start:     day,
		})
	}

	for _, w := range workouts {
		if i, ok := index[w.Date.String()]; ok {
			buckets[i].add(w)
		}
	}
	return buckets
}

func monthlyBuckets(workouts []fitness.Workout, today fitness.Date) []Bucket {
	const months = 12
	first := today.FirstOfMonth()

	buckets := make([]Bucket, 0, months)
	index := make(map[string]int, months)
	for i := months - 1; i >= 0; i-- {
		month := first.AddMonths(-i)
		index[month.MonthKey()] = len(buckets)
		buckets = append(buckets, Bucket{
			Label:     month.Time().Format("Jan"),
			FullLabel: month.Time().Format("Jan 2006"),
			Start:     month,
		})
	}

	for _, w := range workouts {
		if w.Date.IsZero() {
			continue
		}
		if i, ok := index[w.Date.MonthKey()]; ok {
			buckets[i].add(w)
		}
	}
	return buckets
}

func (b *Bucket) add(w fitness.Workout) {
	b.Workouts++
	b.Duration += w.Duration
	b.Calories += w.Calories
}
