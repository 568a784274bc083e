package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-service/internal/improvements"
	"resume-service/internal/improver"
	"resume-service/internal/queue"
	"resume-service/internal/resumes"
	"resume-service/internal/services/health"
	"resume-service/internal/shared/auth"
	"resume-service/internal/shared/config"
	"resume-service/internal/shared/server"
	"resume-service/internal/shared/server/middleware"
	"resume-service/internal/shared/storage/db"
	"resume-service/internal/shared/telemetry"
)

const redisPingTimeout = 2 * time.Second

// App holds shared dependencies and the wired router.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Redis              *redis.Client
	Events             queue.Client
	Improver           improver.Client
	Keys               auth.KeyFetcher
	Verifier           *auth.Verifier
	ResumesRepo        resumes.Repo
	ImprovementsRepo   improvements.Repo
	ResumesService     *resumes.Service
	ImprovementService *improvements.Service
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	verifier, err := auth.NewVerifier(cfg.JWTAlgorithm)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	events, err := buildEvents(ctx, cfg)
	if err != nil {
		return nil, err
	}

	imp, err := buildImprover(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Redis:    buildRedis(ctx, cfg),
		Events:   events,
		Improver: imp,
		Keys:     auth.NewHTTPKeyFetcher(cfg.PublicKeyURL(), cfg.PublicKeyTimeout),
		Verifier: verifier,
	}
	buildServices(app)

	var limiter middleware.Limiter
	checks := map[string]health.Check{}
	if app.Redis != nil {
		limiter = middleware.NewRedisLimiter(app.Redis, nil)
		checks["redis"] = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}
	if app.DB != nil {
		checks["database"] = func(ctx context.Context) error { return db.Ping(ctx, app.DB) }
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Auth:               middleware.AuthConfig{Keys: app.Keys, Verifier: app.Verifier},
		Limiter:            limiter,
		Health:             health.NewService(checks),
		ResumeHandler:      resumes.NewHandler(app.ResumesService),
		ImprovementHandler: improvements.NewHandler(app.ImprovementService),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"storage":       storageName(app.DB),
		"improver":      cfg.ImproverProvider,
		"events":        cfg.EventsDriver,
		"rate_limit":    limiterName(app.Redis),
		"jwt_algorithm": verifier.Algorithm(),
	})
	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

// buildRedis returns nil when Redis is not configured or unreachable; rate limiting then
// falls back to the in-process limiter.
func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		telemetry.Warn("bootstrap.redis_invalid_url", map[string]any{"error": err})
		return nil
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
		_ = client.Close()
		return nil
	}
	return client
}

func buildEvents(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.EventsDriver {
	case "sqs":
		return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
	case "amqp":
		return queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
	default:
		return queue.NopClient{}, nil
	}
}

func buildImprover(ctx context.Context, cfg config.Config) (improver.Client, error) {
	if cfg.ImproverProvider != "http" {
		return improver.PlaceholderClient{}, nil
	}
	return improver.NewHTTPClient(ctx, improver.HTTPConfig{
		URL:          cfg.ImproverURL,
		Timeout:      cfg.ImproverTimeout,
		ClientID:     cfg.ImproverClientID,
		ClientSecret: cfg.ImproverClientSecret,
		TokenURL:     cfg.ImproverTokenURL,
	})
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ResumesRepo = resumes.NewPGRepo(app.DB)
		app.ImprovementsRepo = improvements.NewPGRepo(app.DB)
	} else {
		memResumes := resumes.NewMemoryRepo()
		memHistory := improvements.NewMemoryRepo(memResumes)
		app.ResumesRepo = cascadingResumeRepo{MemoryRepo: memResumes, history: memHistory}
		app.ImprovementsRepo = memHistory
	}

	app.ResumesService = resumes.NewService(app.ResumesRepo)
	app.ImprovementService = improvements.NewService(app.ImprovementsRepo, app.ResumesService, app.Improver, app.Events)
}

// cascadingResumeRepo drops in-memory history with its resume, like ON DELETE CASCADE.
type cascadingResumeRepo struct {
	*resumes.MemoryRepo
	history *improvements.MemoryRepo
}

func (r cascadingResumeRepo) DeleteOwned(ctx context.Context, id, ownerID int64) (bool, error) {
	deleted, err := r.MemoryRepo.DeleteOwned(ctx, id, ownerID)
	if deleted {
		r.history.DeleteResume(id)
	}
	return deleted, err
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func storageName(database *sql.DB) string {
	if database == nil {
		return "memory"
	}
	return "postgres"
}

func limiterName(client *redis.Client) string {
	if client == nil {
		return "memory"
	}
	return "redis"
}
