//go:build integration

package exchange

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/martifolio/internal/clients"
	"go.uber.org/zap"
)

// Calls the real Binance API.
// To run this test, use: go test -tags=integration -v ./internal/services/exchange/...
func TestBinanceSource_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	apiKey := os.Getenv("BINANCE_API_KEY")
	apiSecret := os.Getenv("BINANCE_API_SECRET")

	source := NewBinanceSource(clients.NewBinanceClient(apiKey, apiSecret, 15*time.Second), zap.NewNop())
	ctx := context.Background()

	t.Run("lists prices", func(t *testing.T) {
		prices, err := source.Prices(ctx)
		require.NoError(t, err)
		assert.True(t, prices.Has("BTCUSDT"))
		assert.True(t, prices.Price("BTCUSDT").IsPositive())
	})

	if apiKey == "" || apiSecret == "" {
		t.Skip("BINANCE_API_KEY and BINANCE_API_SECRET must be set for account endpoints")
	}

	t.Run("reads spot balances", func(t *testing.T) {
		records, err := source.SpotBalances(ctx)
		require.NoError(t, err)
		for _, record := range records {
			assert.True(t, record.Total().IsPositive(), record.Asset)
		}
	})

	t.Run("reads BTCUSDT trades", func(t *testing.T) {
		_, err := source.Trades(ctx, "BTCUSDT")
		require.NoError(t, err)
	})
}
