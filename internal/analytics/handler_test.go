package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/session"
)

type testUsers map[int64]fitness.User

func (u testUsers) Get(_ context.Context, id int64) (fitness.User, error) {
	user, ok := u[id]
	if !ok {
		return fitness.User{}, fitness.ErrUserNotFound
	}
	return user, nil
}

func TestHandler(t *testing.T) {
	users := testUsers{
		7: {
			ID:    7,
			Goals: fitness.DefaultGoals(),
			Workouts: []fitness.Workout{
				workout(2, 0, 30, 300, fitness.WorkoutTypeCardio),
				workout(1, 2, 60, 450, fitness.WorkoutTypeStrength),
			},
		},
	}
	handler := NewHandler(users)
	handler.Now = func() time.Time { return testToday.Time().Add(15 * time.Hour) }

	r := mux.NewRouter()
	handler.SetupRoutes(r)

	do := func(path string, userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		if userID != 0 {
			req = req.WithContext(session.WithUserID(req.Context(), userID))
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := do("/dashboard", 7)
	require.Equal(t, http.StatusOK, rr.Code)
	var dashboard Dashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.Equal(t, 30, dashboard.Today.Minutes)
	assert.Equal(t, 300, dashboard.Today.Calories)
	assert.Equal(t, 90, dashboard.Week.Minutes)

	rr = do("/analytics/week", 7)
	require.Equal(t, http.StatusOK, rr.Code)
	var summary Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, RangeWeek, summary.Range)
	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 45, summary.AvgWorkoutDuration)
	assert.Len(t, summary.Buckets, 7)

	rr = do("/analytics/decade", 7)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do("/dashboard", 0)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do("/dashboard", 8)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
