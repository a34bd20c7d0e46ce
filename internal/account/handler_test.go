package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/elitefitness/internal/account"
	"github.com/2beens/elitefitness/internal/middleware"
	"github.com/2beens/elitefitness/internal/session"
)

type testRequestRateLimiter struct {
	limit int
	calls int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, _ string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.calls++
	if l.calls > l.limit {
		return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: time.Second}, nil
	}
	return &redis_rate.Result{Limit: limit, Allowed: 1}, nil
}

func setupRouter(t *testing.T, limiter middleware.RequestRateLimiter) *mux.Router {
	t.Helper()
	service, metricsManager := newTestService(t, session.NewMemoryManager(time.Hour))
	r := mux.NewRouter()
	account.NewHandler(service).SetupRoutes(r, limiter, metricsManager, 100)
	r.Use(middleware.NewAuthMiddlewareHandler(service).AuthCheck())
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthTokenHeader, token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_RegisterLoginProfile(t *testing.T) {
	r := setupRouter(t, middleware.NoRateLimit{})

	rr := doJSON(t, r, "POST", "/a/register", "", `{"name":"Ana","email":"ana@x.io","password":"secret1","confirmPassword":"secret1","gender":"female"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var registered struct {
		Token string `json:"token"`
		User  struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Goals struct {
				Daily int `json:"daily"`
			} `json:"goals"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "Ana", registered.User.Name)
	assert.Equal(t, 30, registered.User.Goals.Daily)
	assert.NotContains(t, rr.Body.String(), "passwordHash")

	rr = doJSON(t, r, "POST", "/a/register", "", `{"name":"Ana","email":"ana@x.io","password":"secret1","confirmPassword":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, r, "POST", "/a/register", "", `{"name":"Bo","email":"bo@x.io","password":"secret1","confirmPassword":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, "POST", "/a/login", "", `{"email":"ana@x.io","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// form login
	form := url.Values{}
	form.Add("email", "ana@x.io")
	form.Add("password", "secret1")
	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, "GET", "/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, r, "GET", "/profile", registered.Token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Ana"`)

	rr = doJSON(t, r, "PUT", "/profile", registered.Token, `{"age":29}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"age":29`)

	rr = doJSON(t, r, "PUT", "/goals", registered.Token, `{"calories":650}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"daily":30,"weekly":150,"calories":650,"steps":10000}`, rr.Body.String())

	rr = doJSON(t, r, "GET", "/a/logout", registered.Token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())

	rr = doJSON(t, r, "GET", "/profile", registered.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_LoginRateLimited(t *testing.T) {
	limiter := &testRequestRateLimiter{limit: 1}
	r := setupRouter(t, limiter)

	rr := doJSON(t, r, "POST", "/a/login", "", `{"email":"ana@x.io","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// next time fails
	rr = doJSON(t, r, "POST", "/a/login", "", `{"email":"ana@x.io","password":"secret1"}`)
	assert.Equal(t, http.StatusTooEarly, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "retry after"))
}
