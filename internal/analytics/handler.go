package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/session"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"
	"github.com/2beens/elitefitness/pkg"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

type userGetter interface {
	Get(ctx context.Context, id int64) (fitness.User, error)
}

// Handler serves derived views; they are recomputed on every request.
type Handler struct {
	users userGetter
	Now   func() time.Time
}

func NewHandler(users userGetter) *Handler {
	return &Handler{
		users: users,
		Now:   time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard", handler.HandleDashboard).Methods("GET", "OPTIONS").Name("dashboard")
	r.HandleFunc("/analytics/{range}", handler.HandleAnalytics).Methods("GET", "OPTIONS").Name("analytics")
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "analyticsHandler.dashboard")
	defer span.End()

	userID, ok := session.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		fitness.WriteError(w, err, "dashboard")
		return
	}

	pkg.WriteJSONOK(w, BuildDashboard(user.Workouts, user.Goals, fitness.DateOf(handler.Now())))
}

func (handler *Handler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "analyticsHandler.analytics")
	defer span.End()

	userID, ok := session.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	rng, err := ParseRange(mux.Vars(r)["range"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("range", string(rng)))

	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		fitness.WriteError(w, err, "analytics")
		return
	}

	pkg.WriteJSONOK(w, Summarize(user.Workouts, rng, fitness.DateOf(handler.Now())))
}
