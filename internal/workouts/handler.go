package workouts

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/session"
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

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts", handler.HandleAdd).Methods("POST").Name("new-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-workout")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var workout fitness.Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("add workout, unmarshal: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Add(r.Context(), userID, workout)
	if err != nil {
		fitness.WriteError(w, err, "add workout")
		return
	}

	log.Tracef("new workout added: [%s] %d", added.Name, added.ID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	workouts, err := handler.service.List(r.Context(), userID)
	if err != nil {
		fitness.WriteError(w, err, "list workouts")
		return
	}

	pkg.WriteJSONOK(w, struct {
		Workouts []fitness.Workout `json:"workouts"`
		Total    int               `json:"total"`
	}{
		Workouts: workouts,
		Total:    len(workouts),
	})
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, ok := fitness.RecordIDVar(r)
	if !ok {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	removed, err := handler.service.Delete(r.Context(), userID, id)
	if err != nil {
		fitness.WriteError(w, err, "delete workout")
		return
	}

	pkg.WriteJSONOK(w, fitness.RemoveResult{ID: id, Removed: removed})
}
