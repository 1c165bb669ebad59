// Package market holds a testify mock of the tracker's market data source.
package market

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

// MarketSource is a mock exchange data source for testing.
type MarketSource struct {
	mock.Mock
}

func (m *MarketSource) SpotBalances(ctx context.Context) ([]domain.BalanceRecord, error) {
	args := m.Called(ctx)
	return records(args.Get(0)), args.Error(1)
}

func (m *MarketSource) StakingPositions(ctx context.Context) []domain.BalanceRecord {
	return records(m.Called(ctx).Get(0))
}

func (m *MarketSource) AutoInvestPositions(ctx context.Context) []domain.BalanceRecord {
	return records(m.Called(ctx).Get(0))
}

func (m *MarketSource) DualInvestPositions(ctx context.Context) []domain.BalanceRecord {
	return records(m.Called(ctx).Get(0))
}

func (m *MarketSource) Prices(ctx context.Context) (*domain.Prices, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prices), args.Error(1)
}

func (m *MarketSource) Trades(ctx context.Context, symbol string) ([]domain.Trade, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

func records(v any) []domain.BalanceRecord {
	if v == nil {
		return nil
	}
	return v.([]domain.BalanceRecord)
}

// NewMarketSource creates a mock that asserts its expectations when the test ends.
func NewMarketSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MarketSource {
	m := &MarketSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
