// Command martifolio tracks a Binance portfolio: it values holdings against
// their replayed cost basis, raises strategy-level alerts and serves a dashboard.
//
// Usage:
//
//	martifolio --config config.yaml
//	martifolio --once
//	martifolio --edit-strategy
//
// Required environment variables (a .env file is read as well):
//
//	BINANCE_API_KEY, BINANCE_API_SECRET
//
// Optional: TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/martifolio/config"
	"github.com/vadiminshakov/martifolio/internal"
	"github.com/vadiminshakov/martifolio/internal/clients"
	"github.com/vadiminshakov/martifolio/internal/logger"
	"github.com/vadiminshakov/martifolio/internal/report"
	"github.com/vadiminshakov/martifolio/internal/services/alerts"
	"github.com/vadiminshakov/martifolio/internal/services/exchange"
	"github.com/vadiminshakov/martifolio/internal/services/notifier"
	"github.com/vadiminshakov/martifolio/internal/setup"
	"github.com/vadiminshakov/martifolio/internal/storage/snapshots"
	"github.com/vadiminshakov/martifolio/internal/storage/strategies"
	"github.com/vadiminshakov/martifolio/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	opts, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStrategyStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if seeded, err := strategies.EnsureDefaults(ctx, store); err != nil {
		return err
	} else if seeded {
		zl.Info("created default strategies", zap.String("path", cfg.StrategiesPath))
	}

	if opts.EditStrategy {
		return setup.RunStrategyWizard(ctx, store)
	}

	client := clients.NewBinanceClient(cfg.Secrets.BinanceAPIKey, cfg.Secrets.BinanceAPISecret, cfg.HTTPTimeout)
	source := exchange.NewBinanceSource(client, zl.Named("binance"), exchange.WithTradeLimit(cfg.TradeLimit))

	telegram := notifier.NewTelegram(cfg.Secrets.TelegramBotToken, zl.Named("telegram"))
	dispatcher := alerts.NewDispatcher(telegram, cfg.Secrets.TelegramChatID, zl.Named("alerts"))

	snapshotStore, err := snapshots.NewWALStore(cfg.SnapshotDir)
	if err != nil {
		return err
	}
	defer snapshotStore.Close()

	tracker := internal.NewTracker(
		internal.TrackerConfig{
			QuoteAsset:       cfg.QuoteAsset,
			Schedule:         cfg.Schedule,
			FetchConcurrency: cfg.FetchConcurrency,
		},
		source,
		store,
		snapshotStore,
		dispatcher,
		zl.Named("tracker"),
	)

	if opts.Once {
		snapshot, err := tracker.Cycle(ctx)
		if err != nil {
			return err
		}
		return report.Render(os.Stdout, *snapshot)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := tracker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if cfg.WebAddr != "" {
		server := web.NewServer(cfg.WebAddr, tracker, snapshotStore, store, zl.Named("web"))
		g.Go(func() error {
			return server.Start(gctx)
		})
	}

	return g.Wait()
}

func openStrategyStore(cfg config.Config) (strategies.Store, func(), error) {
	switch cfg.StrategyStore {
	case config.StoreSQLite:
		store, err := strategies.NewSQLiteStore(cfg.StrategiesPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return strategies.NewJSONStore(cfg.StrategiesPath), func() {}, nil
	}
}
