package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moviereviews/backend/pkg/database"
	"github.com/moviereviews/backend/pkg/health"
	"github.com/moviereviews/backend/pkg/httpclient"
	pkgkafka "github.com/moviereviews/backend/pkg/kafka"
	"github.com/moviereviews/backend/pkg/middleware"
	"github.com/moviereviews/backend/pkg/tracing"
	"github.com/moviereviews/backend/services/review/internal/auth"
	"github.com/moviereviews/backend/services/review/internal/config"
	"github.com/moviereviews/backend/services/review/internal/event"
	handler "github.com/moviereviews/backend/services/review/internal/handler/http"
	"github.com/moviereviews/backend/services/review/internal/repository"
	dynamorepo "github.com/moviereviews/backend/services/review/internal/repository/dynamodb"
	redisrepo "github.com/moviereviews/backend/services/review/internal/repository/redis"
	"github.com/moviereviews/backend/services/review/internal/service"
	"github.com/moviereviews/backend/services/review/internal/translate"
)

// App wires together all dependencies and runs the review service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
	stopBackground context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	database.SetSlowOperationLogging(cfg.SlowOperationThreshold(), logger)

	// Initialize DynamoDB client.
	ddb, err := database.NewDynamoDBClient(ctx, database.DynamoDBConfig{
		Region:          cfg.AWSRegion,
		Endpoint:        cfg.DynamoDBEndpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create dynamodb client: %w", err)
	}
	logger.Info("dynamodb client initialized",
		slog.String("region", cfg.AWSRegion),
		slog.String("endpoint", cfg.DynamoDBEndpoint),
	)

	reviewRepo := dynamorepo.NewReviewRepository(ddb, cfg.ReviewsTable)
	sequenceRepo := dynamorepo.NewSequenceRepository(ddb, cfg.CountersTable)
	var translations repository.TranslationRepository = dynamorepo.NewTranslationRepository(ddb, cfg.TranslationsTable)

	// Optional Redis hot cache in front of the translations table.
	var rdb *redis.Client
	if cfg.RedisEnabled {
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		rdb, err = database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		translations = redisrepo.NewTranslationCache(rdb, translations, cfg.TranslationCacheDuration(), logger)
	}

	engine, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Kafka is optional; a nil publisher drops events.
	var producer *pkgkafka.Producer
	var publisher event.Publisher
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	eventProducer := event.NewProducer(publisher, logger)
	reviewService := service.NewReviewService(reviewRepo, sequenceRepo, eventProducer, logger)
	translationService := service.NewTranslationService(reviewRepo, translations, engine, eventProducer, logger)
	identity := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.UserPoolClientID)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("dynamodb", func(ctx context.Context) error {
		return database.PingTables(ctx, ddb, cfg.ReviewsTable, cfg.TranslationsTable, cfg.CountersTable)
	})
	if rdb != nil {
		healthHandler.RegisterOptional("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.RegisterOptional("kafka", producer.Ping)
	}

	// HTTP router. Background work owned by the router lives until Shutdown.
	bgCtx, stopBackground := context.WithCancel(context.Background())
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(bgCtx, reviewService, translationService, identity, healthHandler, logger,
		handler.RouterConfig{
			CORS:              corsCfg,
			RequestTimeout:    cfg.RequestTimeout,
			TranslationRPS:    cfg.TranslationRateLimitRPS,
			TranslationBurst:  cfg.TranslationRateLimitBurst,
			PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		},
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
		stopBackground: stopBackground,
	}, nil
}

// newEngine builds the configured translation engine, instrumented with
// metrics and tracing.
func newEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (translate.Engine, error) {
	switch cfg.TranslateProvider {
	case config.ProviderHTTP:
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = cfg.TranslateTimeout
		cb := httpclient.NewCircuitBreakerClient(
			httpclient.New(clientCfg),
			httpclient.DefaultCircuitBreakerConfig("translate"),
			logger,
		)
		logger.Info("using HTTP translation engine", slog.String("endpoint", cfg.TranslateEndpoint))
		return translate.Instrument(translate.NewHTTPEngine(cb, cfg.TranslateEndpoint), config.ProviderHTTP), nil

	case config.ProviderAWS:
		awsCfg, err := database.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		if err != nil {
			return nil, fmt.Errorf("load aws config for translate: %w", err)
		}
		logger.Info("using AWS Translate engine", slog.String("region", cfg.AWSRegion))
		return translate.Instrument(translate.NewAWSEngine(translate.NewAWSClient(awsCfg)), config.ProviderAWS), nil

	default:
		return nil, fmt.Errorf("unsupported translation provider %q", cfg.TranslateProvider)
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.stopBackground()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
