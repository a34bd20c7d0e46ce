package export

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/session"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"
	"github.com/2beens/elitefitness/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type userGetter interface {
	Get(ctx context.Context, userID int64) (fitness.User, error)
}

type Handler struct {
	users userGetter

	Now func() time.Time
}

func NewHandler(users userGetter) *Handler {
	return &Handler{
		users: users,
		Now:   time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export")
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exportHandler.export")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := session.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int64("user.id", userID))

	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		fitness.WriteError(w, err, "export")
		return
	}

	now := handler.Now()
	f, err := Workbook(user, now)
	if err != nil {
		log.Errorf("export user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("export: close workbook: %s", err)
		}
	}()

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Errorf("export user %d, write workbook: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", FileName(user, now)))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.XLSX, buf.Bytes())
}
