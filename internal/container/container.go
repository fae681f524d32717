package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/go-trip-itineraries/app/db"
	"github.com/FACorreiaa/go-trip-itineraries/config"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/mailer"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/planner"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/preferences"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/selection"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/spots"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	Pool               *pgxpool.Pool
	RedisClient        *redis.Client
	SpotsHandler       *spots.HandlerImpl
	PreferencesHandler *preferences.HandlerImpl
	SelectionHandler   *selection.HandlerImpl
	PlannerHandler     *planner.HandlerImpl
	ItineraryHandler   *itinerary.HandlerImpl
	MailerHandler      *mailer.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	// Initialize database
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	// Migrations run before the pool is created so the schema is in place
	// by the first query.
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	redisClient := database.NewRedisClient(cfg, logger)

	// Spot catalog
	spotsRepo := spots.NewRepository(pool, logger)
	spotsService := spots.NewServiceImpl(spotsRepo, logger)
	spotsHandler := spots.NewHandler(spotsService, logger)

	// Travel preferences
	prefsRepo := preferences.NewRepository(pool, logger)
	prefsService := preferences.NewServiceImpl(prefsRepo, logger)
	prefsHandler := preferences.NewHandler(prefsService, logger)

	// Selection sessions live in redis with a rolling TTL
	selectionStore := selection.NewRedisStore(redisClient, cfg.Repositories.Redis.SelectionTTL, logger)
	selectionService := selection.NewServiceImpl(selectionStore, spotsService, logger)
	selectionHandler := selection.NewHandler(selectionService, logger)

	// Preference-driven auto-select
	plannerService := planner.NewServiceImpl(spotsService, prefsRepo, selectionStore, logger)
	plannerHandler := planner.NewHandler(plannerService, logger)

	// Saved itineraries
	itineraryRepo := itinerary.NewRepository(pool, logger)
	itineraryService := itinerary.NewService(itineraryRepo, spotsService, selectionStore, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	// Verification email hook for the external auth service
	emailProvider := mailer.NewHTTPProvider(cfg.Email, logger)
	mailerService := mailer.NewService(emailProvider, cfg.Email, logger)
	mailerHandler := mailer.NewHandler(mailerService, cfg.Email.WebhookSecret, logger)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		Pool:               pool,
		RedisClient:        redisClient,
		SpotsHandler:       spotsHandler,
		PreferencesHandler: prefsHandler,
		SelectionHandler:   selectionHandler,
		PlannerHandler:     plannerHandler,
		ItineraryHandler:   itineraryHandler,
		MailerHandler:      mailerHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", slog.Any("error", err))
		}
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// WaitForRedis waits for redis to be ready
func (c *Container) WaitForRedis(ctx context.Context) bool {
	return database.WaitForRedis(ctx, c.RedisClient, c.Logger)
}
