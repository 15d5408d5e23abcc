package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haguru/courier/config"
	"github.com/haguru/courier/internal/auth"
	"github.com/haguru/courier/internal/authservice"
	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/messagerouter"
	"github.com/haguru/courier/internal/middleware"
	"github.com/haguru/courier/internal/routes"
	"github.com/haguru/courier/internal/server"
	"github.com/haguru/courier/pkg/databases/mongo"
	"github.com/haguru/courier/pkg/databases/postgres"
	"github.com/haguru/courier/pkg/metrics"
	"github.com/haguru/courier/pkg/zerolog"

	mongoMessageRepo "github.com/haguru/courier/internal/messagerepo/mongo"
	postgresMessageRepo "github.com/haguru/courier/internal/messagerepo/postgres"
	mongoUserRepo "github.com/haguru/courier/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/courier/internal/userrepo/postgres"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 10
)

// App represents the main application, containing server and configuration.
// All dependencies are constructed here and passed explicitly; there is no
// ambient container or global state.
type App struct {
	Server interfaces.Server
	Config *config.ServiceConfig
	Logger interfaces.Logger
	tokens interfaces.TokenIssuer
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		errs := err.(structValidator.ValidationErrors)
		return nil, fmt.Errorf("validation error: %s", errs)
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger)

	metricsInstance := app.initializeMetrics()

	if err := app.initializeTokenIssuer(); err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %v", err)
	}

	dbClient, err := app.initializeDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %v", err)
	}

	userRepo, messageRepo, err := app.initializeRepositories(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %v", err)
	}

	authService := authservice.NewAuthService(userRepo, app.tokens, logger)
	router := messagerouter.NewRouter(messageRepo, logger)

	route := routes.NewRoute(metricsInstance, authService, router, validator)

	metricsHandler := promhttp.HandlerFor(
		metricsInstance.GetRegistry(),
		promhttp.HandlerOpts{})

	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	if err := app.Server.AddRoute(routes.MetricsRouteAPI, tracedMetricsHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add metrics route: %v", err)
	}

	rateLimited := middleware.RateLimitMiddleware(app.newRateLimiter())
	authenticated := middleware.Authenticate(app.tokens, logger)

	publicRoutes := map[string]http.HandlerFunc{
		routes.RegisterRouteAPI: route.Register,
		routes.LoginRouteAPI:    route.Login,
	}
	for path, handler := range publicRoutes {
		if err := app.Server.AddRoute(path, rateLimited(handler).ServeHTTP); err != nil {
			return nil, fmt.Errorf("failed to add %s route: %v", path, err)
		}
	}

	protectedRoutes := map[string]http.HandlerFunc{
		routes.BroadcastRouteAPI: route.Broadcast,
		routes.DirectRouteAPI:    route.Direct,
		routes.GroupRouteAPI:     route.Group,
		routes.MessagesRouteAPI:  route.Messages,
	}
	for path, handler := range protectedRoutes {
		if err := app.Server.AddRoute(path, authenticated(handler).ServeHTTP); err != nil {
			return nil, fmt.Errorf("failed to add %s route: %v", path, err)
		}
	}

	return app, nil
}

func (app *App) Run() error {
	// start the server
	if err := app.Server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}

	return nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	appMetrics.RegisterCounter(routes.RegisterRequestsTotal, routes.RegisterRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.RegisterSuccessTotal, routes.RegisterSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.RegisterErrorsTotal, routes.RegisterErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.RegisterDurationSeconds,
		routes.RegisterDurationSecondsHelp,
		routes.RegisterDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.LoginRequestsTotal, routes.LoginRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.LoginSuccessTotal, routes.LoginSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.LoginFailedTotal, routes.LoginFailedTotalHelp)
	appMetrics.RegisterHistogram(
		routes.LoginDurationSeconds,
		routes.LoginDurationSecondsHelp,
		routes.LoginDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.SendRequestsTotal, routes.SendRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.SendSuccessTotal, routes.SendSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.SendErrorsTotal, routes.SendErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.SendDurationSeconds,
		routes.SendDurationSecondsHelp,
		routes.SendDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.ListRequestsTotal, routes.ListRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.ListErrorsTotal, routes.ListErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.ListDurationSeconds,
		routes.ListDurationSecondsHelp,
		routes.ListDurationSecondsBuckets)

	return appMetrics
}

func (app *App) initializeTokenIssuer() error {
	if app.Config.PrivateKeyPath == "" {
		return fmt.Errorf("private key path is not provided in the configuration")
	}

	privateKey, err := auth.LoadECDSAPrivateKey(app.Config.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load private key: %v", err)
	}

	issuer, err := auth.NewECDSAIssuer(privateKey)
	if err != nil {
		return err
	}

	app.tokens = issuer
	return nil
}

func (app *App) initializeDBClient() (interfaces.DBClient, error) {
	var dbClient interfaces.DBClient
	var err error
	var dsn string

	switch app.Config.Database.Type {
	case "mongo":
		dbClient, err = mongo.NewMongoDB(&app.Config.Database.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %v", err)
		}
		dsn = app.Config.Database.MongoDB.DSN

	case "postgres":
		opts := app.Config.Database.Postgres.Options
		dbClient = postgres.NewPostgresDatabaseClient(opts.MaxOpenConns, opts.MaxIdleConns, opts.ConnMaxLifetime)
		dsn = app.Config.Database.Postgres.DSN

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	if err = dbClient.Connect(context.Background(), dsn); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", app.Config.Database.Type, err)
	}

	return dbClient, nil
}

func (app *App) initializeRepositories(dbClient interfaces.DBClient) (interfaces.UserRepository, interfaces.MessageRepository, error) {
	var userRepo interfaces.UserRepository
	var messageRepo interfaces.MessageRepository
	var err error

	switch app.Config.Database.Type {
	case "mongo":
		userRepo, err = mongoUserRepo.NewMongoUserRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB user repository: %v", err)
		}
		messageRepo, err = mongoMessageRepo.NewMongoMessageRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB message repository: %v", err)
		}

	case "postgres":
		userRepo, err = postgresUserRepo.NewPostgresUserRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL user repository: %v", err)
		}
		messageRepo, err = postgresMessageRepo.NewPostgresMessageRepository(dbClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL message repository: %v", err)
		}

	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	// The unique username constraint created here closes the register race.
	if err = userRepo.EnsureIndices(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure user indices: %v", err)
	}
	if err = messageRepo.EnsureIndices(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure message indices: %v", err)
	}

	return userRepo, messageRepo, nil
}

func (app *App) newRateLimiter() *rate.Limiter {
	rps := app.Config.RateLimit.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	burst := app.Config.RateLimit.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
