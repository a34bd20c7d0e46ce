package records

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/session"
	"github.com/2beens/elitefitness/pkg"

	"github.com/gorilla/mux"
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
	r.HandleFunc("/records", handler.HandleList).Methods("GET", "OPTIONS").Name("list-records")
	r.HandleFunc("/records", handler.HandleAdd).Methods("POST").Name("new-record")
	r.HandleFunc("/records/detect", handler.HandleDetect).Methods("POST", "OPTIONS").Name("detect-records")
	r.HandleFunc("/records/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-record")
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

	overview, err := handler.service.List(r.Context(), userID)
	if err != nil {
		fitness.WriteError(w, err, "list records")
		return
	}

	pkg.WriteJSONOK(w, struct {
		Overview
		CommonExercises []string `json:"commonExercises"`
	}{
		Overview:        overview,
		CommonExercises: CommonExercises,
	})
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var rec fitness.PersonalRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Add(r.Context(), userID, rec)
	if err != nil {
		fitness.WriteError(w, err, "add record")
		return
	}

	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	detected, err := handler.service.DetectFromWorkouts(r.Context(), userID)
	if err != nil {
		fitness.WriteError(w, err, "detect records")
		return
	}

	pkg.WriteJSONOK(w, struct {
		Detected []fitness.PersonalRecord `json:"detected"`
		Total    int                      `json:"total"`
	}{
		Detected: detected,
		Total:    len(detected),
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
		fitness.WriteError(w, err, "delete record")
		return
	}

	pkg.WriteJSONOK(w, fitness.RemoveResult{ID: id, Removed: removed})
}
