package exercises

import (
	"net/http"
	"strings"

	"github.com/2beens/elitefitness/pkg"

	"github.com/gorilla/mux"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
}

// HandleList serves the exercise library, no session needed.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	if !ValidCategory(category) {
		http.Error(w, "error, unknown category", http.StatusBadRequest)
		return
	}

	found := Filter(category, r.URL.Query().Get("q"))
	pkg.WriteJSONOK(w, struct {
		Exercises  []Exercise `json:"exercises"`
		Categories []string   `json:"categories"`
		Total      int        `json:"total"`
	}{
		Exercises:  found,
		Categories: Categories,
		Total:      len(found),
	})
}
