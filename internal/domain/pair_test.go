package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		want   Pair
	}{
		{"ETHUSDT", Pair{From: "ETH", To: "USDT"}},
		{"btcfdusd", Pair{From: "BTC", To: "FDUSD"}},
		{"SOLUSDC", Pair{From: "SOL", To: "USDC"}},
		{"ETHBTC", Pair{From: "ETH", To: "BTC"}},
		{"BNBETH", Pair{From: "BNB", To: "ETH"}},
		{"ADATRY", Pair{From: "ADA", To: "TRY"}},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := SplitSymbol(tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitSymbol_Unresolvable(t *testing.T) {
	_, err := SplitSymbol("unknownpair")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvableSymbol)
}

func TestPairFromSymbol(t *testing.T) {
	t.Run("known suffix", func(t *testing.T) {
		assert.Equal(t, Pair{From: "ETH", To: "USDT"}, PairFromSymbol("ETHUSDT", "ETH", "BUSD"))
	})

	t.Run("falls back to asset and quote", func(t *testing.T) {
		assert.Equal(t, Pair{From: "XYZ", To: "USDT"}, PairFromSymbol("XYZGBP", "XYZ", "USDT"))
	})
}

func TestPair_Symbol(t *testing.T) {
	pair := Pair{From: "BTC", To: "USDT"}
	assert.Equal(t, "BTCUSDT", pair.Symbol())
	assert.Equal(t, "BTC_USDT", pair.String())
}
