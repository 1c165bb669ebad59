package domain

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidStrategy is returned when a strategy carries a negative threshold or an empty asset key.
var ErrInvalidStrategy = errors.New("invalid strategy")

// LevelKind names one of the four price thresholds of a strategy.
type LevelKind string

const (
	LowBuy1   LevelKind = "low_buy_1"
	LowBuy2   LevelKind = "low_buy_2"
	HighSell1 LevelKind = "high_sell_1"
	HighSell2 LevelKind = "high_sell_2"
)

// Levels all threshold kinds in evaluation order.
var Levels = []LevelKind{LowBuy1, LowBuy2, HighSell1, HighSell2}

// IsBuy reports whether the level fires when price falls to it.
func (k LevelKind) IsBuy() bool {
	return k == LowBuy1 || k == LowBuy2
}

// Label returns the display name, e.g. "Low Buy 1".
func (k LevelKind) Label() string {
	switch k {
	case LowBuy1:
		return "Low Buy 1"
	case LowBuy2:
		return "Low Buy 2"
	case HighSell1:
		return "High Sell 1"
	case HighSell2:
		return "High Sell 2"
	default:
		return string(k)
	}
}

// Strategy user-defined buy and sell thresholds for one asset. Zero disables a threshold.
type Strategy struct {
	LowBuy1   decimal.Decimal `json:"low_buy_1"`
	LowBuy2   decimal.Decimal `json:"low_buy_2"`
	HighSell1 decimal.Decimal `json:"high_sell_1"`
	HighSell2 decimal.Decimal `json:"high_sell_2"`
}

// Threshold returns the threshold configured for kind.
func (s Strategy) Threshold(kind LevelKind) decimal.Decimal {
	switch kind {
	case LowBuy1:
		return s.LowBuy1
	case LowBuy2:
		return s.LowBuy2
	case HighSell1:
		return s.HighSell1
	case HighSell2:
		return s.HighSell2
	default:
		return decimal.Zero
	}
}

// Validate rejects negative thresholds.
func (s Strategy) Validate() error {
	for _, kind := range Levels {
		if s.Threshold(kind).IsNegative() {
			return errors.Wrapf(ErrInvalidStrategy, "%s must not be negative", kind)
		}
	}
	return nil
}

// Strategies strategy per asset code.
type Strategies map[string]Strategy

// Lookup returns the strategy for asset, matching on the uppercased code.
func (s Strategies) Lookup(asset string) (Strategy, bool) {
	strategy, ok := s[strings.ToUpper(asset)]
	return strategy, ok
}

// Normalize uppercases and trims asset keys and validates every strategy.
// Keys that collide after normalisation are rejected.
func (s Strategies) Normalize() (Strategies, error) {
	normalized := make(Strategies, len(s))
	for asset, strategy := range s {
		key := strings.ToUpper(strings.TrimSpace(asset))
		if key == "" {
			return nil, errors.Wrap(ErrInvalidStrategy, "asset key is empty")
		}
		if _, dup := normalized[key]; dup {
			return nil, errors.Wrapf(ErrInvalidStrategy, "asset %s listed more than once", key)
		}
		if err := strategy.Validate(); err != nil {
			return nil, errors.Wrapf(err, "asset %s", key)
		}
		normalized[key] = strategy
	}
	return normalized, nil
}

// DefaultStrategies payload written when no strategies exist yet.
func DefaultStrategies() Strategies {
	return Strategies{"BTC": Strategy{}}
}
