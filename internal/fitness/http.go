package fitness

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// ErrorStatus maps roster and validation errors to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserNotFound):
		// the session points to a user that is gone
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the mapped status. Internal errors are logged and
// never leaked to the client.
func WriteError(w http.ResponseWriter, err error, action string) {
	status := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", action, err)
		http.Error(w, "internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// RecordIDVar reads the {id} path variable.
func RecordIDVar(r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type RemoveResult struct {
	ID      int64 `json:"id"`
	Removed bool  `json:"removed"`
}

type UpdateResult struct {
	ID      int64 `json:"id"`
	Updated bool  `json:"updated"`
}
