package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

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
	"go.uber.org/multierr"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	metricsmiddleware "github.com/2beens/fitcoach/internal/telemetry/metrics/middleware"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/training/dayview"
	"github.com/2beens/fitcoach/internal/training/detailcache"
	"github.com/2beens/fitcoach/internal/training/localapi"
	trainingmcp "github.com/2beens/fitcoach/internal/training/mcp"
	"github.com/2beens/fitcoach/internal/training/plans"
	"github.com/2beens/fitcoach/internal/training/sessions"
	"github.com/2beens/fitcoach/internal/training/setlog"
	"github.com/2beens/fitcoach/internal/training/sets"
	"github.com/2beens/fitcoach/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config   *config.Config
	location *time.Location
	dbPool   *pgxpool.Pool

	redisClient  *redis.Client
	rateLimiter  middleware.RequestRateLimiter
	loginChecker auth.Checker
	authService  *auth.Service

	detailCache *detailcache.Cache
	engines     *dayview.Registry

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	loc, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.ApplySchema(ctx, dbPool); err != nil {
		return nil, err
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(auth.NewAccountsRepo(dbPool), params.Config.AuthSessionTTL(), rdb)
	go func() {
		ticker := time.NewTicker(8 * time.Hour)
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

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitcoach-backend", rdb)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      params.Config,
		location:    loc,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		rateLimiter:  redis_rate.NewLimiter(rdb),
		authService:  authService,
		loginChecker: auth.NewLoginChecker(params.Config.AuthSessionTTL(), rdb),

		detailCache: detailcache.New(params.Config.DetailCacheSizeMB, params.Config.DetailCacheTTL()),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	backend := localapi.NewBackend(plans.NewRepo(dbPool), sets.NewRepo(dbPool), sessions.NewRepo(dbPool))
	s.engines = dayview.NewRegistry(
		params.Config.EngineRegistrySize,
		params.Config.EngineIdleTTL(),
		s.engineFactory(backend),
		metricsManager,
	)

	return s, nil
}

// engineFactory builds the engines hosted for thin clients, all sharing one
// detail cache and reconciling against the local repos.
func (s *Server) engineFactory(backend setlog.Backend) dayview.EngineFactory {
	return func(authCtx auth.Context, dayID int64) *setlog.Engine {
		opts := []setlog.Option{
			setlog.WithLocation(s.location),
			setlog.WithMetrics(s.metricsManager),
		}
		if s.detailCache != nil {
			opts = append(opts, setlog.WithDetailCache(s.detailCache))
		}
		return setlog.New(backend, authCtx, dayID, opts...)
	}
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET").Name("health")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	authHandler := auth.NewHandler(s.authService)
	loginSubrouter := r.PathPrefix("/a").Subrouter()
	loginSubrouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	// rate limit the /login and /logout endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(s.rateLimiter, "login", s.config.LoginRateLimitPerMin, s.metricsManager))

	plansRepo := plans.NewRepo(s.dbPool)
	setsRepo := sets.NewRepo(s.dbPool)
	sessionsRepo := sessions.NewRepo(s.dbPool)

	plansHandler := plans.NewHandler(plansRepo)
	r.HandleFunc("/training/days/{dayId}", plansHandler.HandleGetDay).Methods("GET", "OPTIONS").Name("get-day")
	r.HandleFunc("/training/exercises/{exerciseId}", plansHandler.HandleGetExercise).Methods("GET", "OPTIONS").Name("get-exercise")

	setsHandler := sets.NewHandler(setsRepo)
	r.HandleFunc("/training/sets/day/{dayId}", setsHandler.HandleListDay).Methods("GET", "OPTIONS").Name("list-day-sets")
	r.HandleFunc("/training/sets/exercise/{assignmentId}", setsHandler.HandleListExercise).Methods("GET", "OPTIONS").Name("list-exercise-sets")
	r.HandleFunc("/training/sets", setsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-set")
	r.HandleFunc("/training/sets/{id}", setsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-set")

	sessionsHandler := sessions.NewHandler(sessionsRepo)
	r.HandleFunc("/training/sessions", sessionsHandler.HandleGetOrCreate).Methods("POST", "OPTIONS").Name("get-or-create-session")
	r.HandleFunc("/training/sessions/{id}", sessionsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-session")

	if s.engines != nil {
		dayview.NewHandler(s.engines).SetupRoutes(r)
	}

	if s.config.MCPEnabled {
		mcpServer := trainingmcp.NewServer(plansRepo, setsRepo, s.location)
		r.Handle("/mcp", trainingmcp.NewHTTPHandler(mcpServer)).Methods("GET", "POST", "DELETE", "OPTIONS").Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
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
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
		))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
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

// GracefulShutdown stops both listeners and releases the pools. Hosted
// engines are dropped together with their unsaved drafts.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.engines != nil {
		log.Debugf("dropping %d hosted training day engines", s.engines.Len())
		s.engines.Purge()
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
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

	return err
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
