package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Trade a single executed fill from the account trade history.
type Trade struct {
	Symbol string          `json:"symbol,omitempty"`
	Qty    decimal.Decimal `json:"qty"`
	Price  decimal.Decimal `json:"price"`
	// Time execution time in unix milliseconds.
	Time            int64           `json:"time"`
	IsBuyer         bool            `json:"isBuyer"`
	Commission      decimal.Decimal `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
	BaseAsset       string          `json:"baseAsset,omitempty"`
	QuoteAsset      string          `json:"quoteAsset,omitempty"`
}

// String returns a human-readable string representation.
func (t *Trade) String() string {
	side := "sell"
	if t.IsBuyer {
		side = "buy"
	}
	return fmt.Sprintf("%s %s qty: %s price: %s", t.Symbol, side, t.Qty.String(), t.Price.String())
}

// TagTrades returns copies of trades labelled with the base and quote of pair.
func TagTrades(trades []Trade, pair Pair) []Trade {
	tagged := make([]Trade, len(trades))
	for i, trade := range trades {
		trade.BaseAsset = pair.From
		trade.QuoteAsset = pair.To
		tagged[i] = trade
	}
	return tagged
}

// TradeLookup trade history keyed by market symbol.
type TradeLookup map[string][]Trade

// For returns the trades recorded for symbol, nil when none were fetched.
func (l TradeLookup) For(symbol string) []Trade {
	if l == nil {
		return nil
	}
	return l[symbol]
}
