package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/catalog"
	"github.com/lemonexport/quote-engine/internal/config"
	"github.com/lemonexport/quote-engine/internal/metrics"
	"github.com/lemonexport/quote-engine/internal/pricing"
	"github.com/lemonexport/quote-engine/internal/quote"
	"github.com/lemonexport/quote-engine/internal/ratecache"
	"github.com/lemonexport/quote-engine/internal/search"
	"github.com/lemonexport/quote-engine/internal/textparse"
	"github.com/lemonexport/quote-engine/internal/vision"
)

const sweepInterval = time.Minute

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var cleanup []func()
	defer func() {
		for _, fn := range cleanup {
			fn()
		}
	}()

	// --- Search gateway ---
	var gateway *search.Client
	if cfg.SearchURL != "" {
		gateway = search.NewClient(cfg.SearchURL, search.Options{
			APIKey:    cfg.SearchAPIKey,
			RPS:       cfg.SearchRPS,
			Burst:     cfg.SearchBurst,
			Timeout:   cfg.LookupTimeout,
			Logger:    logger,
			PriceBand: band(cfg.Pricing.PriceBand),
			RateBand:  band(cfg.Pricing.RateBand),
		})
		slog.Info("search gateway enabled", "url", cfg.SearchURL)
	}

	// --- Catalog ---
	var cat catalog.Provider
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		cleanup = append(cleanup, pool.Close)
		pg := catalog.NewPostgresCatalog(pool)
		if err := seedCatalog(ctx, pg); err != nil {
			slog.Error("catalog setup failed", "err", err)
			os.Exit(1)
		}
		cat = pg
		slog.Info("connected to PostgreSQL catalog")
	case gateway != nil:
		cat = gateway
	default:
		slog.Warn("DATABASE_URL and SEARCH_URL not set, using the demo catalog")
		cat = catalog.NewMemoryCatalog(catalog.DemoListings()...)
	}

	// Wrap with Redis read-through cache if configured.
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "err", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		cleanup = append(cleanup, func() { rdb.Close() })
		cat = catalog.NewCachedCatalog(cat, rdb, cfg.CatalogCacheTTL)
		slog.Info("Redis catalog cache enabled", "ttl", cfg.CatalogCacheTTL.String())
	}

	// --- Exchange rates ---
	defaultRates := ratecache.Defaults(cfg.Pricing.DefaultRates)
	var rates ratecache.Provider = ratecache.Static(defaultRates)
	if gateway != nil {
		rates = gateway
	} else {
		slog.Warn("SEARCH_URL not set, serving configured default rates")
	}
	fallback, err := ratecache.FromFloat(cfg.Pricing.FallbackRate)
	if err != nil {
		fallback = decimal.NewFromInt(1)
	}

	// --- Vision ---
	var vp vision.Provider
	if gateway != nil {
		vp = gateway
	}

	// --- Sessions ---
	wsHub := quote.NewWSHub()
	go wsHub.Run()

	registry := quote.NewRegistry(quote.Options{
		Catalog:      cat,
		RateProvider: rates,
		RateOptions: ratecache.Options{
			Defaults: defaultRates,
			Fallback: fallback,
			Band:     band(cfg.Pricing.RateBand),
			Timeout:  cfg.RateTimeout,
			Logger:   logger,
		},
		DefaultPair: ratecache.NewPair(cfg.Pricing.SourceCurrency, cfg.Pricing.TargetCurrency),
		Constants: pricing.Constants{
			PurchaseTaxDivisor: decimal.NewFromFloat(cfg.Pricing.PurchaseTaxDivisor),
			VATRate:            decimal.NewFromFloat(cfg.Pricing.VATRate),
		},
		FeeDefaults:   cfg.Pricing.FeeDefaults,
		LookupTimeout: cfg.LookupTimeout,
		SessionTTL:    cfg.SessionTTL,
		Logger:        logger,
		OnChange:      wsHub.Publish,
	})
	go registry.Run(ctx, sweepInterval)

	quoteSvc := quote.NewService(registry, wsHub, vp)

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metrics.Middleware)

	// CORS middleware for frontend cross-origin requests.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"quote-engine","sessions":%d}`, registry.Len())
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket endpoint for session state pushes.
		r.Get("/ws", wsHub.HandleWS)

		// The WebSocket stays outside the request deadline.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.WriteTimeout))
			quoteSvc.Routes(r)
		})
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		slog.Info("quote-engine listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down quote-engine...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	stop()
	wsHub.Stop()
	fmt.Println("quote-engine stopped")
}

// seedCatalog creates the catalog table and loads the demo listings into an
// empty database.
func seedCatalog(ctx context.Context, pg *catalog.PostgresCatalog) error {
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	n, err := pg.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, l := range catalog.DemoListings() {
		if err := pg.Upsert(ctx, l); err != nil {
			return fmt.Errorf("seed %s %s: %w", l.Brand, l.Model, err)
		}
	}
	slog.Info("catalog seeded with demo listings", "count", len(catalog.DemoListings()))
	return nil
}

func band(b [2]float64) textparse.Band {
	return textparse.NewBand(b[0], b[1])
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
