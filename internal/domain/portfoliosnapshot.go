package domain

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioSnapshot result of one computation cycle.
type PortfolioSnapshot struct {
	CycleID    string           `json:"cycle_id"`
	Timestamp  time.Time        `json:"ts"`
	QuoteAsset string           `json:"quote"`
	Rows       []SymbolPosition `json:"rows"`
	Summary    PortfolioSummary `json:"summary"`
	Alerts     []string         `json:"alerts,omitempty"`
}

// NewPortfolioSnapshot creates a new PortfolioSnapshot with a fresh cycle id.
func NewPortfolioSnapshot(
	timestamp time.Time,
	quoteAsset string,
	rows []SymbolPosition,
	summary PortfolioSummary,
	alerts []string,
) PortfolioSnapshot {
	return PortfolioSnapshot{
		CycleID:    uuid.NewString(),
		Timestamp:  timestamp,
		QuoteAsset: quoteAsset,
		Rows:       rows,
		Summary:    summary,
		Alerts:     alerts,
	}
}

// PortfolioSnapshotRecord bundles a snapshot with its journal index.
type PortfolioSnapshotRecord struct {
	Index    uint64
	Snapshot PortfolioSnapshot
}
