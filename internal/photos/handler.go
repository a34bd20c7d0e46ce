package photos

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/session"
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

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/photos", handler.HandleList).Methods("GET", "OPTIONS").Name("list-photos")
	r.HandleFunc("/photos", handler.HandleUpload).Methods("POST").Name("upload-photo")
	r.HandleFunc("/photos/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("photo-stats")
	r.HandleFunc("/photos/compare", handler.HandleCompare).Methods("GET", "OPTIONS").Name("compare-photos")
	r.HandleFunc("/photos/{id:[0-9]+}/image", handler.HandleImage).Methods("GET").Name("photo-image")
	r.HandleFunc("/photos/{id:[0-9]+}/notes", handler.HandleUpdateNotes).Methods("PUT", "OPTIONS").Name("update-photo-notes")
	r.HandleFunc("/photos/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-photo")
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

	listing, err := handler.service.List(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		fitness.WriteError(w, err, "list photos")
		return
	}

	pkg.WriteJSONOK(w, listing)
}

func (handler *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photosHandler.upload")
	defer span.End()

	userID, ok := session.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// the base64 payload is a third larger than the image itself
	if handler.service.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, handler.service.maxBytes*4/3+4096)
	}

	var params UploadParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "photo too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Add(ctx, userID, params)
	if err != nil {
		fitness.WriteError(w, err, "upload photo")
		return
	}

	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
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

	stats, available, err := handler.service.Stats(r.Context(), userID)
	if err != nil {
		fitness.WriteError(w, err, "photo stats")
		return
	}
	if !available {
		pkg.WriteJSONOK(w, struct {
			Stats *Stats `json:"stats"`
		}{})
		return
	}

	pkg.WriteJSONOK(w, struct {
		Stats *Stats `json:"stats"`
	}{
		Stats: &stats,
	})
}

func (handler *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
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

	var ids []int64
	for _, param := range []string{"a", "b"} {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "error, id invalid", http.StatusBadRequest)
			return
		}
		ids = append(ids, id)
	}

	comparison, err := handler.service.Compare(r.Context(), userID, ids)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		fitness.WriteError(w, err, "compare photos")
		return
	}

	pkg.WriteJSONOK(w, comparison)
}

func (handler *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photosHandler.image")
	defer span.End()

	userID, ok := session.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, ok := fitness.RecordIDVar(r)
	if !ok {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	rc, photo, err := handler.service.Image(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) || errors.Is(err, ErrBlobNotFound) {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		fitness.WriteError(w, err, "photo image")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		log.Errorf("photo %d: write image: %s", id, err)
	}
}

func (handler *Handler) HandleUpdateNotes(w http.ResponseWriter, r *http.Request) {
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

	id, ok := fitness.RecordIDVar(r)
	if !ok {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := handler.service.UpdateNotes(r.Context(), userID, id, req.Notes)
	if err != nil {
		fitness.WriteError(w, err, "update photo notes")
		return
	}

	pkg.WriteJSONOK(w, fitness.UpdateResult{ID: id, Updated: updated})
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
		fitness.WriteError(w, err, "delete photo")
		return
	}

	pkg.WriteJSONOK(w, fitness.RemoveResult{ID: id, Removed: removed})
}
