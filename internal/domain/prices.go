package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Prices maps market symbols to their last traded price and remembers
// the order symbols were reported by the price feed.
type Prices struct {
	symbols  []string
	bySymbol map[string]decimal.Decimal
}

// NewPrices creates an empty price map.
func NewPrices() *Prices {
	return &Prices{bySymbol: make(map[string]decimal.Decimal)}
}

// Set records the price for symbol. Re-setting a symbol keeps its original position.
func (p *Prices) Set(symbol string, price decimal.Decimal) {
	if _, ok := p.bySymbol[symbol]; !ok {
		p.symbols = append(p.symbols, symbol)
	}
	p.bySymbol[symbol] = price
}

// Get returns the price for symbol.
func (p *Prices) Get(symbol string) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	price, ok := p.bySymbol[symbol]
	return price, ok
}

// Price returns the price for symbol or zero when the feed has none.
func (p *Prices) Price(symbol string) decimal.Decimal {
	price, ok := p.Get(symbol)
	if !ok {
		return decimal.Zero
	}
	return price
}

// Has reports whether the feed carries symbol.
func (p *Prices) Has(symbol string) bool {
	_, ok := p.Get(symbol)
	return ok
}

// Symbols returns all symbols in feed order.
func (p *Prices) Symbols() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.symbols...)
}

// Len returns the number of priced symbols.
func (p *Prices) Len() int {
	if p == nil {
		return 0
	}
	return len(p.symbols)
}

// FirstWithPrefix returns the first symbol in feed order starting with prefix.
func (p *Prices) FirstWithPrefix(prefix string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, symbol := range p.symbols {
		if strings.HasPrefix(symbol, prefix) {
			return symbol, true
		}
	}
	return "", false
}
