package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DesignIQ-Labs/designiq-backend/config"
	httpapi "github.com/DesignIQ-Labs/designiq-backend/internal/api/http"
	"github.com/DesignIQ-Labs/designiq-backend/internal/api/http/routes"
	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/catalog"
	cataloghttp "github.com/DesignIQ-Labs/designiq-backend/internal/catalog/http"
	"github.com/DesignIQ-Labs/designiq-backend/internal/credits"
	creditshttp "github.com/DesignIQ-Labs/designiq-backend/internal/credits/http"
	tools "github.com/DesignIQ-Labs/designiq-backend/internal/generation/catalog"
	genhttp "github.com/DesignIQ-Labs/designiq-backend/internal/generation/http"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/repository"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/service"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/vendor"
	"github.com/DesignIQ-Labs/designiq-backend/internal/history"
	historyhttp "github.com/DesignIQ-Labs/designiq-backend/internal/history/http"
	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/DesignIQ-Labs/designiq-backend/internal/storage/objectstore"
	"github.com/DesignIQ-Labs/designiq-backend/internal/storage/postgres"
	"github.com/DesignIQ-Labs/designiq-backend/internal/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App holds the long-lived connections and services of the API.
type App struct {
	Config *config.Config

	Pool  *pgxpool.Pool
	SQL   *sql.DB
	Redis *redis.Client
	Store objectstore.Store

	Tools      *tools.Catalog
	Generation *service.GenerationService
	Credits    *credits.Repository
	History    *history.Service
	Catalog    *catalog.Store
	Users      *users.Repo

	verifier auth.TokenVerifier
}

// OpenRedis connects and pings the job store.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewApp opens every dependency and builds the services. On error the
// connections opened so far are closed.
func NewApp(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	logger := logging.NewLogger(ctx)
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.Pool, err = postgres.NewPool(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	if a.SQL, err = postgres.NewConnection(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	if a.Redis, err = OpenRedis(ctx, cfg.Redis); err != nil {
		return nil, err
	}

	if cfg.Storage.Bucket != "" {
		if a.Store, err = objectstore.NewS3Store(ctx, cfg.Storage); err != nil {
			return nil, err
		}
	} else {
		logger.LogWarnf("bootstrap", "STORAGE_BUCKET not set, images are kept in memory")
		a.Store = objectstore.NewMemoryStore()
	}

	if cfg.Firebase.CredentialsPath != "" {
		client, ferr := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if ferr != nil {
			return nil, ferr
		}
		a.verifier = client
	} else {
		logger.LogWarnf("bootstrap", "Firebase not configured, only dev users are accepted")
	}

	if cfg.Vendor.CatalogPath != "" {
		if a.Tools, err = tools.Load(cfg.Vendor.CatalogPath); err != nil {
			return nil, err
		}
	} else {
		a.Tools = tools.Default()
	}

	client := vendor.New(vendor.Config{
		BaseURL:       cfg.Vendor.BaseURL,
		APIKey:        cfg.Vendor.APIKey,
		Timeout:       cfg.Vendor.Timeout,
		RatePerSecond: cfg.Vendor.RatePerSecond,
		Burst:         cfg.Vendor.Burst,
	})

	a.Credits = credits.NewRepository(a.SQL)
	a.History = history.NewService(history.NewRepository(a.SQL), a.Store, cfg.Jobs.FetchTimeout, cfg.Storage.Prefix)
	a.Generation = service.NewGenerationService(repository.NewJobRepository(a.Redis), a.Tools, client, a.Credits, a.History)
	a.Catalog = catalog.NewStore(a.Pool)
	a.Users = users.NewRepo(a.Pool)

	return a, nil
}

// WatchTools reloads the tool catalog on file changes when enabled.
func (a *App) WatchTools(ctx context.Context) error {
	if !a.Config.Vendor.WatchCatalog || a.Config.Vendor.CatalogPath == "" {
		return nil
	}
	_, err := a.Tools.Watch(ctx, a.Config.Vendor.CatalogPath)
	return err
}

// RouterDeps wires the HTTP handlers over the app's services.
func (a *App) RouterDeps() RouterDeps {
	opts := auth.Options{
		AllowDevUser: a.Config.App.AllowDevUser,
		Users:        a.Users,
	}
	if a.verifier != nil {
		opts.Verifier = a.verifier
	}

	return RouterDeps{
		ServiceName:    "designiq-api",
		Version:        a.Config.App.Version,
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		HealthChecks: map[string]httpapi.Check{
			"db":    a.Pool.Ping,
			"redis": func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() },
		},
		HealthInfo: map[string]func() any{
			"vendor": func() any {
				m := vendor.GetMetrics()
				return map[string]any{
					"calls":          m.Calls,
					"errors":         m.Errors,
					"avg_latency_ms": m.AverageLatency().Milliseconds(),
				}
			},
		},
		V1: routes.V1Deps{
			Auth:       opts,
			Users:      a.Users,
			Generation: genhttp.New(a.Generation, a.Tools),
			History:    historyhttp.New(a.History),
			Credits:    creditshttp.New(a.Credits),
			Catalog:    cataloghttp.New(a.Catalog, a.Credits),
		},
	}
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.SQL != nil {
		a.SQL.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
