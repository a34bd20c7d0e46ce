package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/elitefitness/internal/account"
	"github.com/2beens/elitefitness/internal/analytics"
	"github.com/2beens/elitefitness/internal/backend"
	"github.com/2beens/elitefitness/internal/config"
	"github.com/2beens/elitefitness/internal/exercises"
	"github.com/2beens/elitefitness/internal/export"
	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/measurements"
	"github.com/2beens/elitefitness/internal/middleware"
	"github.com/2beens/elitefitness/internal/misc"
	"github.com/2beens/elitefitness/internal/photos"
	"github.com/2beens/elitefitness/internal/records"
	"github.com/2beens/elitefitness/internal/session"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"
	"github.com/2beens/elitefitness/internal/workouts"
)

const serviceName = "elite-fitness"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config          *config.Config
	backend         *backend.Backend
	roster          *fitness.Roster
	sessions        session.Manager
	sessionsCleanup *cron.Cron
	photoBlobs      photos.BlobStore

	otelShutdown   func()
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     config.Secrets
	VersionInfo string
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets

	be, err := backend.Open(ctx, backend.OpenParams{
		Config:         cfg,
		Secrets:        secrets,
		TracingEnabled: secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	promRegistry := metrics.SetupPrometheus(be.Collectors()...)
	metricsManager := metrics.NewManager("fitness", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran (I think this is probably not needed)

	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, serviceName)
	if err != nil {
		_ = be.Close()
		return nil, fmt.Errorf("setup honeycomb: %w", err)
	}

	roster := fitness.NewRoster(be.Store, fitness.NewIDGenerator(nil), metricsManager)
	users, err := roster.Load(ctx)
	if err != nil {
		otelShutdown()
		_ = be.Close()
		return nil, fmt.Errorf("load roster: %w", err)
	}
	log.Infof("roster loaded: %d users", len(users))

	var sessions session.Manager
	if be.Redis != nil {
		sessions = session.NewRedisManager(cfg.SessionTTL(), be.Redis, metricsManager)
	} else {
		log.Warnln("no redis configured, sessions are kept in memory")
		sessions = session.NewMemoryManager(cfg.SessionTTL())
	}

	photoBlobs, err := newPhotoBlobStore(ctx, cfg, secrets)
	if err != nil {
		otelShutdown()
		_ = be.Close()
		return nil, err
	}

	return &Server{
		versionInfo:    params.VersionInfo,
		config:         cfg,
		backend:        be,
		roster:         roster,
		sessions:       sessions,
		photoBlobs:     photoBlobs,
		otelShutdown:   otelShutdown,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func newPhotoBlobStore(ctx context.Context, cfg *config.Config, secrets config.Secrets) (photos.BlobStore, error) {
	switch cfg.PhotoStorage {
	case config.PhotoStorageMinio:
		client, err := photos.NewMinioClient(cfg.MinioEndpoint, secrets.MinioAccessKey, secrets.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			return nil, fmt.Errorf("new minio client: %w", err)
		}
		store, err := photos.NewMinioBlobStore(ctx, client, cfg.MinioBucket)
		if err != nil {
			return nil, fmt.Errorf("new minio photo store: %w", err)
		}
		log.Debugf("photos stored in minio bucket [%s]", cfg.MinioBucket)
		return store, nil
	default:
		store, err := photos.NewDiskBlobStore(cfg.PhotosPath)
		if err != nil {
			return nil, fmt.Errorf("new disk photo store: %w", err)
		}
		log.Debugf("photos stored in [%s]", cfg.PhotosPath)
		return store, nil
	}
}

func (s *Server) rateLimiter() middleware.RequestRateLimiter {
	if s.backend.Redis == nil {
		return middleware.NoRateLimit{}
	}
	return redis_rate.NewLimiter(s.backend.Redis)
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo)
	miscHandler.SetupRoutes(r)

	accountService := account.NewService(s.roster, s.sessions, s.metricsManager, s.config.BcryptCost)
	accountHandler := account.NewHandler(accountService)
	accountHandler.SetupRoutes(r, s.rateLimiter(), s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	workouts.NewHandler(workouts.NewService(s.roster, s.metricsManager)).SetupRoutes(r)
	measurements.NewHandler(measurements.NewService(s.roster, s.metricsManager)).SetupRoutes(r)
	records.NewHandler(records.NewService(s.roster, s.metricsManager)).SetupRoutes(r)
	analytics.NewHandler(s.roster).SetupRoutes(r)
	exercises.NewHandler().SetupRoutes(r)
	export.NewHandler(s.roster).SetupRoutes(r)

	photosService := photos.NewService(s.roster, s.photoBlobs, s.metricsManager, s.config.MaxPhotoBytes)
	photos.NewHandler(photosService).SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(accountService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	s.sessionsCleanup, err = session.StartCleanup(ctx, s.sessions, s.config.SessionCleanupSchedule)
	if err != nil {
		log.Fatalf("failed to start sessions cleanup: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, "http-server"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.sessionsCleanup != nil {
		s.sessionsCleanup.Stop()
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	// in-flight requests are done, the stores can go
	if err := s.backend.Close(); err != nil {
		log.Errorf("failed to close backend: %s", err)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
