package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/shuttleday/shuttleday/internal/api/sse"
	"github.com/shuttleday/shuttleday/internal/dependencies/clock"
	"github.com/shuttleday/shuttleday/internal/dependencies/random"
	"github.com/shuttleday/shuttleday/internal/events"
	"github.com/shuttleday/shuttleday/internal/events/rabbitmq"
	"github.com/shuttleday/shuttleday/internal/services/match"
	"github.com/shuttleday/shuttleday/internal/services/roster"
	"github.com/shuttleday/shuttleday/internal/services/rules"
	"github.com/shuttleday/shuttleday/internal/services/scheduler"
	"github.com/shuttleday/shuttleday/internal/services/session"
	"github.com/shuttleday/shuttleday/internal/storage"
	"github.com/shuttleday/shuttleday/internal/storage/memory"
	redisstorage "github.com/shuttleday/shuttleday/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RulesService      *rules.Service
	RosterService     *roster.Service
	SchedulerService  *scheduler.Service
	MatchController   *match.Controller
	SessionController *session.Controller

	// Event fan-out
	HubManager *sse.HubManager
	Publisher  events.Publisher

	// amqpPublisher holds the broker connection for shutdown, nil when
	// AMQP publishing is disabled
	amqpPublisher *rabbitmq.Publisher
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AMQPConfig enables broker publishing when non-nil
	AMQPConfig *rabbitmq.Config
	// RulesConfig holds scoring rules (zero value means defaults)
	RulesConfig rules.Config
	// SchedulerConfig holds scheduler tuning (zero value means defaults)
	SchedulerConfig scheduler.Config
	// MatchConfig holds match controller tuning (zero value means defaults)
	MatchConfig match.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Event publishers: SSE always, AMQP when configured
	hubManager := sse.NewHubManager(logger)
	publishers := []events.Publisher{sse.NewHubPublisher(hubManager, logger)}

	var amqpPublisher *rabbitmq.Publisher
	if cfg.AMQPConfig != nil {
		p, err := rabbitmq.New(*cfg.AMQPConfig, logger)
		if err != nil {
			return nil, err
		}
		amqpPublisher = p
		publishers = append(publishers, p)
	}

	app := newWithDependencies(store, clk, rnd, hubManager, events.NewFanout(publishers...), cfg, logger)
	app.amqpPublisher = amqpPublisher
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	hubManager *sse.HubManager,
	publisher events.Publisher,
	cfg Config,
	logger *slog.Logger,
) *App {
	// Create services
	rulesService := rules.New(cfg.RulesConfig)
	rosterService := roster.New(store, clk, logger)
	schedulerService := scheduler.New(store, rosterService, clk, rnd, logger, cfg.SchedulerConfig)
	matchController := match.NewController(store, rulesService, clk, logger, cfg.MatchConfig)
	sessionController := session.NewController(
		store,
		rosterService,
		schedulerService,
		matchController,
		clk,
		rnd,
		publisher,
		logger,
	)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		RulesService:      rulesService,
		RosterService:     rosterService,
		SchedulerService:  schedulerService,
		MatchController:   matchController,
		SessionController: sessionController,
		HubManager:        hubManager,
		Publisher:         publisher,
	}
}

// Close releases external connections held by the app
func (a *App) Close() error {
	if a.amqpPublisher != nil {
		return a.amqpPublisher.Close()
	}
	return nil
}
