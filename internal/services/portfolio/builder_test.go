package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestBuild_NoTradesFallsBackToBreakEven(t *testing.T) {
	holdings := domain.Holdings{{Asset: "BTC", Quantity: dec("1")}}
	prices := domain.NewPrices()
	prices.Set("BTCUSDT", dec("50000"))

	rows, summary := Build(holdings, prices, nil, "USDT")

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "BTC", row.Asset)
	assert.Equal(t, "BTCUSDT", row.Symbol)
	assertDecimal(t, "50000", row.Invested, "invested")
	assertDecimal(t, "0", row.AverageBuyPrice, "average price")
	assertDecimal(t, "0", row.UnrealizedPnL, "unrealized")
	assertDecimal(t, "0", row.ROIPct, "roi")
	assertDecimal(t, "50000", summary.TotalInvested, "total invested")
	assertDecimal(t, "50000", summary.TotalValue, "total value")
}

func TestBuild_WithTradeHistory(t *testing.T) {
	holdings := domain.Holdings{{Asset: "ETH", Quantity: dec("1")}}
	prices := domain.NewPrices()
	prices.Set("ETHUSDT", dec("200"))
	trades := domain.TradeLookup{
		"ETHUSDT": {
			{Qty: dec("2"), Price: dec("100"), Time: 1, IsBuyer: true},
			{Qty: dec("1"), Price: dec("150"), Time: 2},
		},
	}

	rows, summary := Build(holdings, prices, trades, "USDT")

	require.Len(t, rows, 1)
	row := rows[0]
	assertDecimal(t, "100", row.AverageBuyPrice, "average price")
	assertDecimal(t, "100", row.Invested, "invested")
	assertDecimal(t, "200", row.CurrentValue, "current value")
	assertDecimal(t, "100", row.UnrealizedPnL, "unrealized")
	assertDecimal(t, "100", row.ROIPct, "roi")
	assertDecimal(t, "50", row.RealizedPnL, "realized")

	assertDecimal(t, "100", summary.NetUnrealized, "net unrealized")
	assertDecimal(t, "50", summary.RealizedPnL, "realized total")
}

func TestBuild_SkipsUnresolvedAssets(t *testing.T) {
	holdings := domain.Holdings{
		{Asset: "DOGE", Quantity: dec("100")},
		{Asset: "BTC", Quantity: dec("0.5")},
	}
	prices := domain.NewPrices()
	prices.Set("BTCUSDT", dec("40000"))

	rows, summary := Build(holdings, prices, nil, "USDT")

	require.Len(t, rows, 1)
	assert.Equal(t, "BTC", rows[0].Asset)
	assertDecimal(t, "20000", summary.TotalValue, "total value")
	assert.Equal(t, []string{"DOGE"}, Unmatched(holdings, prices, "USDT"))
}

func TestBuild_PrefixFallbackAndOrder(t *testing.T) {
	holdings := domain.Holdings{
		{Asset: "SOL", Quantity: dec("2")},
		{Asset: "BTC", Quantity: dec("1")},
	}
	prices := domain.NewPrices()
	prices.Set("BTCUSDT", dec("100"))
	prices.Set("SOLBTC", dec("0.002"))

	rows, _ := Build(holdings, prices, nil, "USDT")

	require.Len(t, rows, 2)
	assert.Equal(t, "SOL", rows[0].Asset)
	assert.Equal(t, "SOLBTC", rows[0].Symbol)
	assert.Equal(t, "BTC", rows[1].Asset)
}

func TestBuild_FullySoldHistoryKeepsZeroCost(t *testing.T) {
	// replay ends flat, so cost basis is unknown and falls back to break-even
	holdings := domain.Holdings{{Asset: "BTC", Quantity: dec("1")}}
	prices := domain.NewPrices()
	prices.Set("BTCUSDT", dec("300"))
	trades := domain.TradeLookup{
		"BTCUSDT": {
			{Qty: dec("1"), Price: dec("100"), Time: 1, IsBuyer: true},
			{Qty: dec("1"), Price: dec("200"), Time: 2},
		},
	}

	rows, _ := Build(holdings, prices, trades, "USDT")

	require.Len(t, rows, 1)
	assertDecimal(t, "300", rows[0].Invested, "invested")
	assertDecimal(t, "100", rows[0].RealizedPnL, "realized")
}

func TestBuild_FullySoldWithUnevenFeeFallsBackToBreakEven(t *testing.T) {
	// remaining units came from elsewhere (e.g. staking), spot history is flat
	holdings := domain.Holdings{{Asset: "BTC", Quantity: dec("0.5")}}
	prices := domain.NewPrices()
	prices.Set("BTCUSDT", dec("110"))
	trades := domain.TradeLookup{
		"BTCUSDT": {
			{Qty: dec("3"), Price: dec("100"), Time: 1, IsBuyer: true, Commission: dec("1"), CommissionAsset: "USDT"},
			{Qty: dec("3"), Price: dec("110"), Time: 2},
		},
	}

	rows, summary := Build(holdings, prices, trades, "USDT")

	require.Len(t, rows, 1)
	assertDecimal(t, "55", rows[0].Invested, "invested")
	assertDecimal(t, "0", rows[0].AverageBuyPrice, "average price")
	assertDecimal(t, "0", rows[0].ROIPct, "roi")
	assertDecimal(t, "29", rows[0].RealizedPnL, "realized")
	assertDecimal(t, "55", summary.TotalInvested, "total invested")
}

func TestBuild_Idempotent(t *testing.T) {
	holdings := domain.Holdings{
		{Asset: "BTC", Quantity: dec("1.25")},
		{Asset: "ETH", Quantity: dec("3")},
	}
	prices := domain.NewPrices()
	prices.Set("BTCUSDT", dec("61234.56"))
	prices.Set("ETHUSDT", dec("3012.7"))
	trades := domain.TradeLookup{
		"ETHUSDT": {
			{Qty: dec("1"), Price: dec("2500"), Time: 1, IsBuyer: true, Commission: dec("0.001"), CommissionAsset: "ETH"},
			{Qty: dec("3"), Price: dec("2800"), Time: 2, IsBuyer: true, Commission: dec("2"), CommissionAsset: "USDT"},
			{Qty: dec("0.5"), Price: dec("3100"), Time: 3},
		},
	}

	rows1, summary1 := Build(holdings, prices, trades, "USDT")
	rows2, summary2 := Build(holdings, prices, trades, "USDT")

	assert.Equal(t, rows1, rows2)
	assert.Equal(t, summary1, summary2)
}

func TestExtremes(t *testing.T) {
	_, _, ok := Extremes(nil)
	assert.False(t, ok)

	rows := []domain.SymbolPosition{
		{Asset: "A", ROIPct: dec("5")},
		{Asset: "B", ROIPct: dec("-10")},
		{Asset: "C", ROIPct: dec("25")},
		{Asset: "D", ROIPct: dec("25")},
	}

	best, worst, ok := Extremes(rows)
	require.True(t, ok)
	assert.Equal(t, "C", best.Asset)
	assert.Equal(t, "B", worst.Asset)
}
