package fitness_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/elitefitness/internal/fitness"
)

func TestDate(t *testing.T) {
	d, err := fitness.ParseDate("2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-31", d.String())
	assert.Equal(t, "2026-03", d.MonthKey())
	assert.Equal(t, "2026-04-01", d.AddDays(1).String())
	assert.Equal(t, "2026-03-01", d.FirstOfMonth().String())
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.Equal(t, 365, fitness.NewDate(2025, time.March, 31).DaysUntil(d))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.True(t, d.Equal(fitness.NewDate(2026, time.March, 31)))

	_, err = fitness.ParseDate("31.03.2026")
	assert.Error(t, err)
}

func TestDateOf_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2026, time.October, 16, 1, 30, 0, 0, loc)
	assert.Equal(t, "2026-10-15", fitness.DateOf(ts).String())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Date fitness.Date `json:"date"`
	}

	raw, err := json.Marshal(wrapper{Date: fitness.NewDate(2026, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-01-05"}`, string(raw))

	raw, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":null}`, string(raw))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-01-05T10:11:12.000Z"}`), &w))
	assert.Equal(t, "2026-01-05", w.Date.String())

	require.NoError(t, json.Unmarshal([]byte(`{"date":""}`), &w))
	assert.True(t, w.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"yesterday"}`), &w))
}
