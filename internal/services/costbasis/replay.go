// Package costbasis replays a symbol's trade history to derive average cost,
// invested capital and realized PnL with the moving weighted average cost method.
package costbasis

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

// Result cost basis of the position left after replaying a trade history.
type Result struct {
	AveragePrice decimal.Decimal
	Invested     decimal.Decimal
	RealizedPnL  decimal.Decimal
}

// position running quantity and total cost basis of that quantity.
type position struct {
	qty  decimal.Decimal
	cost decimal.Decimal
}

func (p position) averageCost() decimal.Decimal {
	if p.qty.IsZero() {
		return decimal.Zero
	}
	return p.cost.Div(p.qty)
}

// ReplaySymbol splits symbol into base and quote and replays trades against it.
// Returns domain.ErrUnresolvableSymbol when the symbol has no known quote suffix.
func ReplaySymbol(symbol string, trades []domain.Trade) (Result, error) {
	if len(trades) == 0 {
		return emptyResult(), nil
	}

	pair, err := domain.SplitSymbol(symbol)
	if err != nil {
		return Result{}, err
	}

	return Replay(pair, trades), nil
}

// Replay walks trades in time order (stable for equal times).
// Fees in the quote asset add to cost on buys and reduce proceeds on sells.
// Fees in the base asset reduce the quantity received on buys without touching cost.
// Sells are clamped to the held quantity; a sell with nothing held is ignored.
func Replay(pair domain.Pair, trades []domain.Trade) Result {
	if len(trades) == 0 {
		return emptyResult()
	}

	ordered := make([]domain.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time < ordered[j].Time
	})

	pos := position{qty: decimal.Zero, cost: decimal.Zero}
	realized := decimal.Zero

	for _, trade := range ordered {
		feeQuote, feeBase := fees(trade, pair)

		if trade.IsBuyer {
			pos.qty = pos.qty.Add(trade.Qty.Sub(feeBase))
			pos.cost = pos.cost.Add(trade.Qty.Mul(trade.Price).Add(feeQuote))
			continue
		}

		sellQty := decimal.Min(trade.Qty, pos.qty)
		if !sellQty.IsPositive() {
			continue
		}

		proceeds := sellQty.Mul(trade.Price).Sub(feeQuote)
		released := pos.averageCost().Mul(sellQty)
		if sellQty.Equal(pos.qty) {
			// closing sell releases the whole cost, no division residue
			released = pos.cost
		}

		realized = realized.Add(proceeds.Sub(released))
		pos.qty = pos.qty.Sub(sellQty)
		pos.cost = pos.cost.Sub(released)
		if !pos.qty.IsPositive() || pos.cost.IsNegative() {
			pos.cost = decimal.Zero
		}
	}

	avgPrice := decimal.Zero
	if pos.qty.IsPositive() {
		avgPrice = pos.cost.Div(pos.qty)
	}

	return Result{
		AveragePrice: avgPrice,
		Invested:     pos.cost,
		RealizedPnL:  realized,
	}
}

func fees(trade domain.Trade, pair domain.Pair) (feeQuote, feeBase decimal.Decimal) {
	feeQuote, feeBase = decimal.Zero, decimal.Zero
	if trade.CommissionAsset == pair.To {
		feeQuote = trade.Commission
	}
	if trade.CommissionAsset == pair.From {
		feeBase = trade.Commission
	}
	return feeQuote, feeBase
}

func emptyResult() Result {
	return Result{AveragePrice: decimal.Zero, Invested: decimal.Zero, RealizedPnL: decimal.Zero}
}
