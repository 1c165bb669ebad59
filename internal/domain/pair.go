// Package domain defines core data structures used throughout the portfolio tracker.
package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnresolvableSymbol is returned when a symbol does not end with any known quote asset.
var ErrUnresolvableSymbol = errors.New("unable to infer base asset for symbol")

// QuoteAssets known quote suffixes in the order they are matched against a symbol.
var QuoteAssets = []string{
	"USDT",
	"BUSD",
	"FDUSD",
	"TUSD",
	"USDC",
	"BTC",
	"BNB",
	"ETH",
	"TRY",
	"EUR",
}

// Pair cryptocurrency trading pair.
type Pair struct {
	// From base currency symbol.
	From string
	// To quote currency symbol.
	To string
}

// String returns the string representation.
func (p *Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Symbol returns the concatenated symbol representation.
func (p *Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.From, p.To)
}

// SplitSymbol splits a market symbol into base and quote using the first
// matching suffix from QuoteAssets.
func SplitSymbol(symbol string) (Pair, error) {
	symbol = strings.ToUpper(symbol)
	for _, quote := range QuoteAssets {
		if strings.HasSuffix(symbol, quote) {
			return Pair{From: symbol[:len(symbol)-len(quote)], To: quote}, nil
		}
	}

	return Pair{}, errors.Wrapf(ErrUnresolvableSymbol, "symbol %s", symbol)
}

// PairFromSymbol is the lenient form of SplitSymbol: unknown symbols resolve
// to the holding asset traded against fallbackQuote.
func PairFromSymbol(symbol, asset, fallbackQuote string) Pair {
	pair, err := SplitSymbol(symbol)
	if err != nil {
		return Pair{From: asset, To: fallbackQuote}
	}
	return pair
}
