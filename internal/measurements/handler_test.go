package measurements_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/elitefitness/internal/measurements"
	"github.com/2beens/elitefitness/internal/session"
)

func TestHandler(t *testing.T) {
	service, user, _ := setup(t)
	r := mux.NewRouter()
	measurements.NewHandler(service).SetupRoutes(r)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req = req.WithContext(session.WithUserID(req.Context(), user.ID))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := do("GET", "/measurements/latest", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"measurement":null,"bmiCategory":null,"bodyFatCategory":null}`, rr.Body.String())

	rr = do("POST", "/measurements", `{"weight":70,"height":175,"age":30,"gender":"male","waist":80,"neck":38,"activityLevel":"active"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"bmi":22.9`)
	assert.Contains(t, rr.Body.String(), `"bodyFat":12.9`)

	rr = do("POST", "/measurements", `{"weight":80}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"bmi":null`)

	rr = do("GET", "/measurements/latest", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"bmiCategory":null`)

	rr = do("GET", "/measurements", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":2`)

	list, err := service.List(t.Context(), user.ID)
	require.NoError(t, err)
	rr = do("DELETE", fmt.Sprintf("/measurements/%d", list[0].ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"removed":true`)

	rr = do("POST", "/measurements", `{"weight":-5}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
