package measurements

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
	r.HandleFunc("/measurements", handler.HandleList).Methods("GET", "OPTIONS").Name("list-measurements")
	r.HandleFunc("/measurements", handler.HandleAdd).Methods("POST").Name("new-measurement")
	r.HandleFunc("/measurements/latest", handler.HandleLatest).Methods("GET", "OPTIONS").Name("latest-measurement")
	r.HandleFunc("/measurements/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-measurement")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var m fitness.BodyMeasurement
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Add(r.Context(), userID, m)
	if err != nil {
		fitness.WriteError(w, err, "add measurement")
		return
	}

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

	list, err := handler.service.List(r.Context(), userID)
	if err != nil {
		fitness.WriteError(w, err, "list measurements")
		return
	}

	pkg.WriteJSONOK(w, struct {
		Measurements []fitness.BodyMeasurement `json:"measurements"`
		Total        int                       `json:"total"`
	}{
		Measurements: list,
		Total:        len(list),
	})
}

func (handler *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := session.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	latest, err := handler.service.Latest(r.Context(), userID)
	if err != nil {
		fitness.WriteError(w, err, "latest measurement")
		return
	}

	pkg.WriteJSONOK(w, latest)
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
		fitness.WriteError(w, err, "delete measurement")
		return
	}

	pkg.WriteJSONOK(w, fitness.RemoveResult{ID: id, Removed: removed})
}
