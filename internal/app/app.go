// Package app assembles the store, services, handlers and routes into a
// runnable echo server.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/messmate/internal/config"
	"github.com/iliyamo/messmate/internal/database"
	"github.com/iliyamo/messmate/internal/handler"
	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/metrics"
	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/internal/repository"
	"github.com/iliyamo/messmate/internal/router"
	"github.com/iliyamo/messmate/internal/service"
)

// App is a fully wired server.
type App struct {
	Echo   *echo.Echo
	KV     kv.Store
	Seeder *service.Seeder

	db *sql.DB
}

// OpenStore returns the key-value backend selected by cfg.KVBackend. For
// SQL backends the returned *sql.DB must be closed by the caller.
func OpenStore(ctx context.Context, cfg config.Config, rdb *redis.Client) (kv.Store, *sql.DB, error) {
	switch cfg.KVBackend {
	case config.BackendRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("KV_BACKEND=redis but redis is unavailable")
		}
		return kv.NewRedisStore(rdb, cfg.KVPrefix), nil, nil
	case config.BackendMySQL:
		db, err := database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		if err := kv.Migrate(ctx, db, kv.MySQL); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate mysql: %w", err)
		}
		return kv.NewSQLStore(db, kv.MySQL), db, nil
	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := kv.Migrate(ctx, db, kv.SQLite); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return kv.NewSQLStore(db, kv.SQLite), db, nil
	default:
		return kv.NewMemoryStore(), nil, nil
	}
}

// New builds the server. rdb may be nil, in which case rate limiting and
// the billing cache are disabled and only non-redis backends work.
func New(ctx context.Context, cfg config.Config, rdb *redis.Client) (*App, error) {
	store, db, err := OpenStore(ctx, cfg, rdb)
	if err != nil {
		return nil, err
	}
	a := NewWithStore(cfg, store, rdb)
	a.db = db
	return a, nil
}

// NewWithStore builds the server on an already opened store.
func NewWithStore(cfg config.Config, store kv.Store, rdb *redis.Client) *App {
	cacheCfg := config.LoadCacheConfig()

	pubs := queue.Fanout{metrics.EventCounter{}}
	if rdb != nil {
		pubs = append(pubs, middleware.NewCacheInvalidator(rdb, cacheCfg.Prefix))
	}
	if cfg.AMQPEnabled {
		pubs = append(pubs, queue.NewAMQPPublisher(cfg.RabbitURL))
	}

	users := repository.NewUserRepo(store)
	messes := repository.NewMessRepo(store)
	students := repository.NewStudentRepo(store)
	attendance := repository.NewAttendanceRepo(store)
	sessions := repository.NewSessionRepo(store)

	seeder := service.NewSeeder(users, messes, students, attendance, pubs)
	identity := service.NewIdentityService(users, messes, sessions, seeder)
	messSvc := service.NewMessService(messes, pubs)
	roster := service.NewRosterService(students, users, pubs)
	ledger := service.NewLedgerService(attendance, pubs)
	billing := service.NewBillingService(messes, students, attendance)
	dashboard := service.NewDashboardService(identity, messSvc, roster, ledger, billing)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())

	router.RegisterRoutes(e, handler.NewHealthHandler(store, cfg.KVBackend))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, identity, messSvc), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterOwner(e, handler.NewOwnerHandler(messSvc, roster, ledger, billing, dashboard), cfg.JWTSecret,
		middleware.BillingCache(cacheCfg, rdb))
	router.RegisterStudent(e, handler.NewStudentHandler(dashboard), cfg.JWTSecret)

	slog.Info("app wired", "kv", cfg.KVBackend, "redis", rdb != nil, "amqp", cfg.AMQPEnabled)
	return &App{Echo: e, KV: store, Seeder: seeder}
}

// Close releases the SQL connection pool, if any.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
