package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/middleware"
	"github.com/2beens/elitefitness/internal/session"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"
	"github.com/2beens/elitefitness/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

type authResponse struct {
	Token string             `json:"token"`
	User  fitness.PublicUser `json:"user"`
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/register", handler.HandleRegister).
		Methods("POST", "OPTIONS").Name("register")
	loginSubrouter.
		HandleFunc("/login", handler.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.HandleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the register and login endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", allowedPerMin, metricsManager))

	mainRouter.HandleFunc("/profile", handler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	mainRouter.HandleFunc("/profile", handler.HandleUpdateProfile).Methods("PUT").Name("update-profile")
	mainRouter.HandleFunc("/goals", handler.HandleUpdateGoals).Methods("PUT", "OPTIONS").Name("update-goals")
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "accountHandler.register")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var params RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("register, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := handler.service.Register(ctx, params)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		fitness.WriteError(w, err, "register")
		return
	}

	pkg.WriteJSON(w, authResponse{Token: token, User: user.Public()}, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "accountHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, token, err := handler.service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		fitness.WriteError(w, err, "login")
		return
	}

	log.Tracef("login success for user %d", user.ID)
	pkg.WriteJSONOK(w, authResponse{Token: token, User: user.Public()})
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "accountHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get(middleware.AuthTokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.service.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.service.Get(r.Context(), userID)
	if err != nil {
		fitness.WriteError(w, err, "get profile")
		return
	}

	pkg.WriteJSONOK(w, user.Public())
}

func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var patch fitness.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := handler.service.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		fitness.WriteError(w, err, "update profile")
		return
	}

	pkg.WriteJSONOK(w, user.Public())
}

func (handler *Handler) HandleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var patch fitness.GoalsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := handler.service.UpdateGoals(r.Context(), userID, patch)
	if err != nil {
		fitness.WriteError(w, err, "update goals")
		return
	}

	pkg.WriteJSONOK(w, user.Goals)
}
