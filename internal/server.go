package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/repcoach/internal/auth"
	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/config"
	"github.com/2beens/repcoach/internal/db"
	"github.com/2beens/repcoach/internal/events"
	"github.com/2beens/repcoach/internal/history"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/mcp"
	"github.com/2beens/repcoach/internal/middleware"
	"github.com/2beens/repcoach/internal/sessions"
	"github.com/2beens/repcoach/internal/telemetry/metrics"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/internal/templates"
	"github.com/2beens/repcoach/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const sessionsCleanupInterval = 8 * time.Hour

// swapped in tests
var honeycombSetup = tracing.HoneycombSetup

type principalChecker interface {
	Principal(ctx context.Context, token string) (*identity.Principal, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool
	app    *application

	redisClient  *redis.Client
	rateLimiter  middleware.RequestRateLimiter
	loginChecker principalChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbParams := db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	}

	if params.Config.MigrationsEnabled {
		if err := db.RunMigrations(dbParams, params.Config.MigrationsPath); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("repcoach", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := honeycombSetup(params.HoneycombTracingEnabled, "repcoach-backend", rdb)
	if err != nil {
		if closeErr := rdb.Close(); closeErr != nil {
			log.Errorf("failed to close redis client conn: %s", closeErr)
		}
		dbPool.Close()
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	authService := auth.NewService(params.Config.Accounts, auth.DefaultTTL, rdb)
	go func() {
		ticker := time.NewTicker(sessionsCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				authService.ScanAndClean(ctx)
			}
		}
	}()

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		app:         newApplication(newPostgresStores(dbPool), params.Config, metricsManager),
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		rateLimiter:  redis_rate.NewLimiter(rdb),
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	authHandler := auth.NewHandler(s.authService)
	loginSubrouter := r.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", authHandler.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", authHandler.HandleLogout).
		Methods("GET", "OPTIONS").Name("logout")
	loginSubrouter.Use(middleware.RateLimit(
		s.rateLimiter,
		"login",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	))

	identityHandler := identity.NewHandler(s.app.resolver)
	r.HandleFunc("/me", identityHandler.HandleMe).Methods("GET", "OPTIONS").Name("me")

	catalogHandler := catalog.NewHandler(s.app.exercises)
	r.HandleFunc("/exercises", catalogHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises/{id}", catalogHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")

	templatesHandler := templates.NewHandler(s.app.templates)
	r.HandleFunc("/templates", templatesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-templates")
	r.HandleFunc("/templates", templatesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-template")
	r.HandleFunc("/templates/{id}", templatesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")
	r.HandleFunc("/templates/{id}", templatesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-template")
	r.HandleFunc("/templates/{id}", templatesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-template")

	sessionsHandler := sessions.NewHandler(s.app.engine)
	r.HandleFunc("/sessions", sessionsHandler.HandleStart).Methods("POST", "OPTIONS").Name("start-session")
	r.HandleFunc("/sessions/active", sessionsHandler.HandleLatestActive).Methods("GET", "OPTIONS").Name("active-session")
	r.HandleFunc("/sessions/history", sessionsHandler.HandleHistory).Methods("GET", "OPTIONS").Name("sessions-history")
	r.HandleFunc("/sessions/{id}", sessionsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/sessions/{id}/exercises/{exIdx}/sets/{setIdx}/done", sessionsHandler.HandleMarkSetDone).
		Methods("POST", "OPTIONS").Name("mark-set-done")
	r.HandleFunc("/sessions/{id}/exercises/{exIdx}/weight", sessionsHandler.HandleUpdatePlannedWeight).
		Methods("PUT", "OPTIONS").Name("update-planned-weight")
	r.HandleFunc("/sessions/{id}/exercises/{exIdx}/effort", sessionsHandler.HandleRecordEffort).
		Methods("POST", "OPTIONS").Name("record-effort")
	r.HandleFunc("/sessions/{id}/complete", sessionsHandler.HandleComplete).Methods("POST", "OPTIONS").Name("complete-session")

	eventsHandler := events.NewHandler(s.app.journal)
	r.HandleFunc("/sessions/{id}/events", eventsHandler.HandleListForSession).Methods("GET", "OPTIONS").Name("session-events")

	historyHandler := history.NewHandler(s.app.history)
	r.HandleFunc("/history/assessments", historyHandler.HandleLatestAssessments).Methods("GET", "OPTIONS").Name("latest-assessments")
	r.HandleFunc("/history/assessments", historyHandler.HandleRecordAssessment).Methods("POST", "OPTIONS").Name("new-assessment")
	r.HandleFunc("/history/weights", historyHandler.HandleLatestWeights).Methods("GET", "OPTIONS").Name("latest-weights")
	r.HandleFunc("/history/progressions", historyHandler.HandleProgressions).Methods("GET", "OPTIONS").Name("progressions")

	mcpServer := mcp.New(s.app.history, s.app.engine, s.versionInfo)
	r.PathPrefix("/mcp").Handler(mcp.NewHTTPHandler(mcpServer)).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

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
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeConnections.Inc()
	case http.StateClosed:
		s.metricsManager.GaugeConnections.Dec()
	}
}
