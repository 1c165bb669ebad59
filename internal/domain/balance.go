package domain

import "github.com/shopspring/decimal"

// BalanceSource identifies the account type a balance record came from.
type BalanceSource string

const (
	SourceSpot       BalanceSource = "spot"
	SourceStaking    BalanceSource = "staking"
	SourceAutoInvest BalanceSource = "auto_invest"
	SourceDualInvest BalanceSource = "dual_invest"
)

// BalanceRecord is the canonical shape of a balance entry from any account type.
// Sources name their primary amount differently, so exactly the field the
// source reports is set and the others stay nil.
type BalanceRecord struct {
	Asset    string           `json:"asset"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Free     *decimal.Decimal `json:"free,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Locked   decimal.Decimal  `json:"locked"`
	Source   BalanceSource    `json:"source,omitempty"`
	Product  string           `json:"product,omitempty"`
}

// Primary returns the first present amount field among quantity, free and amount.
// A present zero wins over later fields.
func (r BalanceRecord) Primary() decimal.Decimal {
	for _, field := range []*decimal.Decimal{r.Quantity, r.Free, r.Amount} {
		if field != nil {
			return *field
		}
	}
	return decimal.Zero
}

// Total returns the primary amount plus the locked amount.
func (r BalanceRecord) Total() decimal.Decimal {
	return r.Primary().Add(r.Locked)
}

// NewAmount returns a pointer to v for populating BalanceRecord amount fields.
func NewAmount(v decimal.Decimal) *decimal.Decimal {
	return &v
}

// Holding net quantity held of one asset.
type Holding struct {
	Asset    string          `json:"asset"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Holdings net quantities per asset in first-seen order.
type Holdings []Holding

// Assets returns held asset codes in order.
func (h Holdings) Assets() []string {
	assets := make([]string, 0, len(h))
	for _, holding := range h {
		assets = append(assets, holding.Asset)
	}
	return assets
}

// Quantity returns the held quantity of asset.
func (h Holdings) Quantity(asset string) (decimal.Decimal, bool) {
	for _, holding := range h {
		if holding.Asset == asset {
			return holding.Quantity, true
		}
	}
	return decimal.Zero, false
}
