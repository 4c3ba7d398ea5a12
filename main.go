package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/borders/apps/go-server/internal/config"
	"github.com/robalobadob/borders/apps/go-server/internal/countries"
	"github.com/robalobadob/borders/apps/go-server/internal/httpserver"
	"github.com/robalobadob/borders/apps/go-server/internal/quiz"
	"github.com/robalobadob/borders/apps/go-server/internal/store"
	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("go-server exited")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	src, closeSrc, err := newSource(cfg.Countries)
	if err != nil {
		return err
	}
	defer closeSrc()

	cat, err := territory.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("loading territories: %w", err)
	}
	log.Info().
		Int("territories", cat.Len()).
		Int("dangling_borders", cat.Dangling()).
		Msg("catalog loaded")

	svc := quiz.NewService(cat, store.NewMemoryStore(), quiz.WithDailySalt(cfg.DailySalt))
	srv := httpserver.New(svc, httpserver.Options{
		Addr:            cfg.Addr(),
		ClientOrigin:    cfg.ClientOrigin,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting go-server")
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// newSource builds the provider chain: a local file or the REST API, optionally
// behind the sqlite snapshot cache, then the embedded snapshot as last resort.
func newSource(cfg config.CountriesConfig) (territory.Source, func(), error) {
	var (
		primary countries.Named
		closeFn = func() {}
	)
	if cfg.File != "" {
		primary = countries.Named{Name: "file", Source: countries.File{Path: cfg.File}}
	} else {
		primary = countries.Named{Name: "api", Source: countries.NewClient(cfg.APIURL,
			countries.WithTimeout(cfg.FetchTimeout),
			countries.WithRateLimit(cfg.RatePerSec, 1),
			countries.WithRetries(cfg.Retries),
		)}
	}

	if cfg.CacheDB != "" {
		cache, err := countries.OpenCache(cfg.CacheDB, primary.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("opening countries cache: %w", err)
		}
		log.Info().Str("path", cfg.CacheDB).Msg("countries cache ready")
		primary = countries.Named{Name: primary.Name + "+cache", Source: cache}
		closeFn = func() { _ = cache.Close() }
	}

	chain := countries.Chain{primary}
	if cfg.EmbeddedFallback {
		chain = append(chain, countries.Named{Name: "embedded", Source: countries.Embedded{}})
	}
	return chain, closeFn, nil
}
