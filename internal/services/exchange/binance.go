// Package exchange fetches balances, prices and trade fills from Binance and
// converts them into domain types.
package exchange

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/martifolio/internal/domain"
	"github.com/vadiminshakov/martifolio/pkg/retrier"
	"go.uber.org/zap"
)

const defaultTradeLimit = 1000

// stakingProducts product types queried for staking and savings positions.
var stakingProducts = []string{"STAKING", "LENDING", "LENDING_DAILY", "LENDING_FIXED"}

// BinanceSource reads account state from Binance.
type BinanceSource struct {
	client     *binance.Client
	sapi       *sapiClient
	retrier    *retrier.Retrier
	logger     *zap.Logger
	tradeLimit int
}

// Option configures a BinanceSource.
type Option func(*BinanceSource)

// WithTradeLimit sets how many recent fills are requested per symbol.
func WithTradeLimit(limit int) Option {
	return func(s *BinanceSource) {
		s.tradeLimit = limit
	}
}

// WithRetrier replaces the retry policy used for required endpoints.
func WithRetrier(r *retrier.Retrier) Option {
	return func(s *BinanceSource) {
		s.retrier = r
	}
}

// NewBinanceSource creates a source backed by client.
func NewBinanceSource(client *binance.Client, logger *zap.Logger, opts ...Option) *BinanceSource {
	httpClient := client.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	s := &BinanceSource{
		client: client,
		sapi: &sapiClient{
			baseURL:    client.BaseURL,
			apiKey:     client.APIKey,
			secret:     []byte(client.SecretKey),
			httpClient: httpClient,
		},
		logger:     logger,
		tradeLimit: defaultTradeLimit,
	}
	s.retrier = retrier.New(
		retrier.WithMaxRetries(3),
		retrier.WithInitialInterval(500*time.Millisecond),
		retrier.WithMaxInterval(5*time.Second),
		retrier.WithRetryIf(isRetriable),
		retrier.WithOnRetry(func(attempt int, err error) {
			s.logger.Debug("retrying binance request", zap.Int("attempt", attempt), zap.Error(err))
		}),
	)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SpotBalances returns non-empty spot balances.
func (s *BinanceSource) SpotBalances(ctx context.Context) ([]domain.BalanceRecord, error) {
	account, err := retrier.DoWithData(s.retrier, ctx, func(ctx context.Context) (*binance.Account, error) {
		return s.client.NewGetAccountService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account balances")
	}

	records := make([]domain.BalanceRecord, 0, len(account.Balances))
	for _, balance := range account.Balances {
		free, err := decimal.NewFromString(balance.Free)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse free balance of %s", balance.Asset)
		}
		locked, err := decimal.NewFromString(balance.Locked)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse locked balance of %s", balance.Asset)
		}
		if !free.Add(locked).IsPositive() {
			continue
		}

		records = append(records, domain.BalanceRecord{
			Asset:  balance.Asset,
			Free:   domain.NewAmount(free),
			Locked: locked,
			Source: domain.SourceSpot,
		})
	}

	return records, nil
}

type stakingPosition struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

// StakingPositions returns staking and savings positions. Products that fail to load are skipped.
func (s *BinanceSource) StakingPositions(ctx context.Context) []domain.BalanceRecord {
	var records []domain.BalanceRecord
	for _, product := range stakingProducts {
		var positions []stakingPosition
		params := url.Values{"product": {product}}
		if err := s.sapi.do(ctx, http.MethodPost, "/sapi/v1/staking/productPosition", params, &positions); err != nil {
			s.logger.Debug("staking positions unavailable", zap.String("product", product), zap.Error(err))
			continue
		}

		for _, position := range positions {
			if !position.Amount.IsPositive() {
				continue
			}
			records = append(records, domain.BalanceRecord{
				Asset:   position.Asset,
				Amount:  domain.NewAmount(position.Amount),
				Source:  domain.SourceStaking,
				Product: product,
			})
		}
	}
	return records
}

type autoInvestResponse struct {
	Positions []struct {
		TargetAsset string          `json:"targetAsset"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	} `json:"positions"`
}

// AutoInvestPositions returns auto-invest plan holdings, or nothing when unavailable.
func (s *BinanceSource) AutoInvestPositions(ctx context.Context) []domain.BalanceRecord {
	var resp autoInvestResponse
	if err := s.sapi.do(ctx, http.MethodGet, "/sapi/v1/lending/auto-invest/positions", nil, &resp); err != nil {
		s.logger.Debug("auto-invest positions unavailable", zap.Error(err))
		return nil
	}

	var records []domain.BalanceRecord
	for _, position := range resp.Positions {
		if !position.TotalAmount.IsPositive() {
			continue
		}
		records = append(records, domain.BalanceRecord{
			Asset:   position.TargetAsset,
			Amount:  domain.NewAmount(position.TotalAmount),
			Source:  domain.SourceAutoInvest,
			Product: "AUTO_INVEST",
		})
	}
	return records
}

type dualInvestProduct struct {
	Underlying         string          `json:"underlying"`
	SubscriptionAmount decimal.Decimal `json:"subscriptionAmount"`
}

// DualInvestPositions returns dual investment subscriptions, or nothing when unavailable.
func (s *BinanceSource) DualInvestPositions(ctx context.Context) []domain.BalanceRecord {
	var products []dualInvestProduct
	if err := s.sapi.do(ctx, http.MethodGet, "/sapi/v1/lending/dual/daily/product/list", nil, &products); err != nil {
		s.logger.Debug("dual investment info unavailable", zap.Error(err))
		return nil
	}

	var records []domain.BalanceRecord
	for _, product := range products {
		if !product.SubscriptionAmount.IsPositive() {
			continue
		}
		records = append(records, domain.BalanceRecord{
			Asset:   product.Underlying,
			Amount:  domain.NewAmount(product.SubscriptionAmount),
			Source:  domain.SourceDualInvest,
			Product: "DUAL_INVEST",
		})
	}
	return records
}

// Prices returns the last price of every listed symbol in the order Binance reports them.
func (s *BinanceSource) Prices(ctx context.Context) (*domain.Prices, error) {
	list, err := retrier.DoWithData(s.retrier, ctx, func(ctx context.Context) ([]*binance.SymbolPrice, error) {
		return s.client.NewListPricesService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list binance prices")
	}

	prices := domain.NewPrices()
	for _, item := range list {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			s.logger.Debug("skipping unparsable price", zap.String("symbol", item.Symbol), zap.String("price", item.Price))
			continue
		}
		prices.Set(item.Symbol, price)
	}
	return prices, nil
}

// Trades returns the account's recent fills for symbol.
func (s *BinanceSource) Trades(ctx context.Context, symbol string) ([]domain.Trade, error) {
	fills, err := retrier.DoWithData(s.retrier, ctx, func(ctx context.Context) ([]*binance.TradeV3, error) {
		return s.client.NewListTradesService().Symbol(symbol).Limit(s.tradeLimit).Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list binance trades for %s", symbol)
	}

	trades := make([]domain.Trade, 0, len(fills))
	for _, fill := range fills {
		trade, err := tradeFromFill(symbol, fill)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func tradeFromFill(symbol string, fill *binance.TradeV3) (domain.Trade, error) {
	qty, err := decimal.NewFromString(fill.Quantity)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "failed to parse trade quantity")
	}
	price, err := decimal.NewFromString(fill.Price)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "failed to parse trade price")
	}
	commission := decimal.Zero
	if fill.Commission != "" {
		if commission, err = decimal.NewFromString(fill.Commission); err != nil {
			return domain.Trade{}, errors.Wrap(err, "failed to parse trade commission")
		}
	}

	return domain.Trade{
		Symbol:          symbol,
		Qty:             qty,
		Price:           price,
		Time:            fill.Time,
		IsBuyer:         fill.IsBuyer,
		Commission:      commission,
		CommissionAsset: fill.CommissionAsset,
	}, nil
}

// isRetriable rejects errors that a retry cannot fix: cancelled contexts,
// malformed requests and rejected credentials.
func isRetriable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code <= -1100 && apiErr.Code >= -1199 {
			return false
		}
		return apiErr.Code != -2014 && apiErr.Code != -2015
	}

	var sErr *sapiError
	if errors.As(err, &sErr) {
		return sErr.StatusCode == http.StatusTooManyRequests || sErr.StatusCode >= http.StatusInternalServerError
	}

	return true
}
