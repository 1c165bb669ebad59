// Package internal wires data sources, the valuation engine and alerting into scheduled cycles.
package internal

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/vadiminshakov/martifolio/internal/domain"
	"github.com/vadiminshakov/martifolio/internal/services/alerts"
	"github.com/vadiminshakov/martifolio/internal/services/holdings"
	"github.com/vadiminshakov/martifolio/internal/services/portfolio"
	"github.com/vadiminshakov/martifolio/internal/storage/strategies"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoHoldings is returned when every balance source came back empty.
	ErrNoHoldings = errors.New("no holdings found")
	// ErrNoMatchedSymbols is returned when no held asset matches a market symbol.
	ErrNoMatchedSymbols = errors.New("no holdings matched a market symbol")
)

// MarketSource provides balances, prices and fills. The staking, auto-invest
// and dual-invest calls are best-effort and never fail.
type MarketSource interface {
	SpotBalances(ctx context.Context) ([]domain.BalanceRecord, error)
	StakingPositions(ctx context.Context) []domain.BalanceRecord
	AutoInvestPositions(ctx context.Context) []domain.BalanceRecord
	DualInvestPositions(ctx context.Context) []domain.BalanceRecord
	Prices(ctx context.Context) (*domain.Prices, error)
	Trades(ctx context.Context, symbol string) ([]domain.Trade, error)
}

// SnapshotStore journals cycle results.
type SnapshotStore interface {
	Save(snapshot domain.PortfolioSnapshot) (uint64, error)
}

// AlertDispatcher delivers alerts that were not delivered before.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alerts []domain.Alert) []string
}

// TrackerConfig tracker settings.
type TrackerConfig struct {
	QuoteAsset       string
	Schedule         string
	FetchConcurrency int
}

// Tracker runs portfolio computation cycles.
type Tracker struct {
	cfg        TrackerConfig
	source     MarketSource
	strategies strategies.Store
	snapshots  SnapshotStore
	dispatcher AlertDispatcher
	logger     *zap.Logger
	now        func() time.Time

	mu     sync.RWMutex
	latest *domain.PortfolioSnapshot
}

// NewTracker creates a tracker. snapshots and dispatcher may be nil.
func NewTracker(
	cfg TrackerConfig,
	source MarketSource,
	strategyStore strategies.Store,
	snapshots SnapshotStore,
	dispatcher AlertDispatcher,
	logger *zap.Logger,
) *Tracker {
	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = 1
	}

	return &Tracker{
		cfg:        cfg,
		source:     source,
		strategies: strategyStore,
		snapshots:  snapshots,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Cycle fetches fresh account state, values it and evaluates alerts.
func (t *Tracker) Cycle(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	spot, err := t.source.SpotBalances(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch spot balances")
	}

	held := holdings.Aggregate(
		spot,
		t.source.StakingPositions(ctx),
		t.source.AutoInvestPositions(ctx),
		t.source.DualInvestPositions(ctx),
	)
	if len(held) == 0 {
		return nil, ErrNoHoldings
	}

	prices, err := t.source.Prices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch prices")
	}

	targets, err := t.tradeTargets(held, prices)
	if err != nil {
		return nil, err
	}
	if unmatched := portfolio.Unmatched(held, prices, t.cfg.QuoteAsset); len(unmatched) > 0 {
		t.logger.Info("assets without market symbol", zap.Strings("assets", unmatched))
	}

	trades, err := t.fetchTrades(ctx, targets)
	if err != nil {
		return nil, err
	}

	rows, summary := portfolio.Build(held, prices, trades, t.cfg.QuoteAsset)

	fired := alerts.Evaluate(rows, t.loadStrategies(ctx))
	if t.dispatcher != nil && len(fired) > 0 {
		if sent := t.dispatcher.Dispatch(ctx, fired); len(sent) > 0 {
			t.logger.Info("alerts delivered", zap.Int("count", len(sent)))
		}
	}

	snapshot := domain.NewPortfolioSnapshot(t.now().UTC(), t.cfg.QuoteAsset, rows, summary, domain.AlertMessages(fired))
	if t.snapshots != nil {
		if _, err := t.snapshots.Save(snapshot); err != nil {
			t.logger.Error("failed to persist portfolio snapshot", zap.Error(err))
		}
	}

	t.mu.Lock()
	t.latest = &snapshot
	t.mu.Unlock()

	t.logger.Info("portfolio cycle completed",
		zap.String("cycle_id", snapshot.CycleID),
		zap.Int("rows", len(rows)),
		zap.String("total_value", summary.TotalValue.StringFixed(2)),
		zap.String("net_unrealized", summary.NetUnrealized.StringFixed(2)),
		zap.Int("alerts", len(fired)),
	)

	return &snapshot, nil
}

// Latest returns the result of the last successful cycle.
func (t *Tracker) Latest() (domain.PortfolioSnapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.latest == nil {
		return domain.PortfolioSnapshot{}, false
	}
	return *t.latest, true
}

// Run executes a cycle immediately and then on the configured schedule until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	logger := cronLogger{t.logger.Sugar()}
	scheduler := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := scheduler.AddFunc(t.cfg.Schedule, func() { t.runCycle(ctx) }); err != nil {
		return errors.Wrapf(err, "invalid schedule %q", t.cfg.Schedule)
	}

	t.logger.Info("starting portfolio tracker", zap.String("schedule", t.cfg.Schedule), zap.String("quote", t.cfg.QuoteAsset))
	t.runCycle(ctx)

	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()

	t.logger.Info("portfolio tracker stopped")
	return ctx.Err()
}

func (t *Tracker) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := t.Cycle(ctx); err != nil {
		t.logger.Error("portfolio cycle failed", zap.Error(err))
	}
}

type tradeTarget struct {
	symbol string
	asset  string
}

// tradeTargets picks the symbols whose fills are needed: the resolved symbol of
// every asset and, when it differs, the symbol the valuation will match.
func (t *Tracker) tradeTargets(held domain.Holdings, prices *domain.Prices) ([]tradeTarget, error) {
	seen := make(map[string]struct{})
	var targets []tradeTarget
	add := func(symbol, asset string) {
		if _, ok := seen[symbol]; ok {
			return
		}
		seen[symbol] = struct{}{}
		targets = append(targets, tradeTarget{symbol: symbol, asset: asset})
	}

	resolved := 0
	for _, holding := range held {
		if symbol, ok := domain.ResolveSymbol(holding.Asset, prices, t.cfg.QuoteAsset); ok {
			resolved++
			add(symbol, holding.Asset)
		}
		if symbol, ok := domain.MatchSymbol(holding.Asset, prices, t.cfg.QuoteAsset); ok {
			add(symbol, holding.Asset)
		}
	}
	if resolved == 0 {
		return nil, ErrNoMatchedSymbols
	}

	return targets, nil
}

// fetchTrades loads fills concurrently. A failed symbol gets an empty history.
func (t *Tracker) fetchTrades(ctx context.Context, targets []tradeTarget) (domain.TradeLookup, error) {
	var mu sync.Mutex
	lookup := make(domain.TradeLookup, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.FetchConcurrency)

	for _, target := range targets {
		g.Go(func() error {
			fills, err := t.source.Trades(gctx, target.symbol)
			if err != nil {
				t.logger.Warn("trade history unavailable", zap.String("symbol", target.symbol), zap.Error(err))
				fills = nil
			}
			pair := domain.PairFromSymbol(target.symbol, target.asset, t.cfg.QuoteAsset)

			mu.Lock()
			lookup[target.symbol] = domain.TagTrades(fills, pair)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "trade fetch interrupted")
	}

	return lookup, nil
}

func (t *Tracker) loadStrategies(ctx context.Context) domain.Strategies {
	if t.strategies == nil {
		return nil
	}

	loaded, err := t.strategies.Load(ctx)
	if err != nil {
		if !errors.Is(err, strategies.ErrNotFound) {
			t.logger.Warn("failed to load strategies, skipping alerts", zap.Error(err))
		}
		return nil
	}
	return loaded
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
