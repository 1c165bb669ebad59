package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewSymbolPosition(t *testing.T) {
	d := decimal.RequireFromString

	tests := []struct {
		name           string
		quantity       string
		invested       string
		price          string
		wantValue      string
		wantUnrealized string
		wantROI        string
	}{
		{"profit", "2", "200", "150", "300", "100", "50"},
		{"loss", "1", "8000", "6000", "6000", "-2000", "-25"},
		{"break-even", "0.5", "25000", "50000", "25000", "0", "0"},
		{"zero invested", "3", "0", "10", "30", "30", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewSymbolPosition("BTC", "BTCUSDT", d(tt.quantity), decimal.Zero, d(tt.invested), d(tt.price), decimal.Zero)

			assert.True(t, row.CurrentValue.Equal(d(tt.wantValue)), "value %s", row.CurrentValue)
			assert.True(t, row.UnrealizedPnL.Equal(d(tt.wantUnrealized)), "unrealized %s", row.UnrealizedPnL)
			assert.True(t, row.ROIPct.Equal(d(tt.wantROI)), "roi %s", row.ROIPct)
		})
	}
}

func TestPortfolioSummary_Add(t *testing.T) {
	d := decimal.RequireFromString

	a := NewSymbolPosition("BTC", "BTCUSDT", d("1"), d("100"), d("100"), d("150"), d("10"))
	b := NewSymbolPosition("ETH", "ETHUSDT", d("2"), d("50"), d("100"), d("40"), d("-5"))

	summary := PortfolioSummary{}.Add(a).Add(b)

	assert.True(t, summary.TotalInvested.Equal(d("200")))
	assert.True(t, summary.TotalValue.Equal(d("230")))
	assert.True(t, summary.NetUnrealized.Equal(d("30")))
	assert.True(t, summary.RealizedPnL.Equal(d("5")))
}
