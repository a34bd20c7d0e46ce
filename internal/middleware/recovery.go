package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/elitefitness/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500 and counts it.
// http.ErrAbortHandler is re-raised so the server still aborts the response.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"remote": r.RemoteAddr,
				}).Errorf("handler panic: %v\n%s", recovered, debug.Stack())
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
