// Package report renders portfolio snapshots for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/martifolio/internal/domain"
	"github.com/vadiminshakov/martifolio/internal/services/portfolio"
)

var (
	gain = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}
	loss = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF6B6B"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("205"))
	metricStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var columns = []string{"Asset", "Symbol", "Quantity", "Avg. Buy", "Invested", "Price", "Value", "Unrealized P&L", "ROI %", "Realized P&L"}

// pnl columns, colored by sign
const (
	colUnrealized = 7
	colROI        = 8
	colRealized   = 9
)

// Render writes the summary metrics, the position table, top movers and alerts.
func Render(w io.Writer, snapshot domain.PortfolioSnapshot) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Portfolio (%s) %s", snapshot.QuoteAsset, snapshot.Timestamp.Format("2006-01-02 15:04:05 UTC"))))
	b.WriteString("\n")
	b.WriteString(renderSummary(snapshot.Summary))
	b.WriteString("\n")

	if len(snapshot.Rows) == 0 {
		b.WriteString("No portfolio data to display.\n")
	} else {
		b.WriteString(renderTable(snapshot.Rows))
		b.WriteString("\n")
	}

	if best, worst, ok := portfolio.Extremes(snapshot.Rows); ok {
		b.WriteString(lipgloss.NewStyle().Foreground(gain).Render(fmt.Sprintf("Top Gainer: %s (%s%% | %s)",
			best.Asset, best.ROIPct.StringFixed(2), FormatCurrency(best.UnrealizedPnL))))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(loss).Render(fmt.Sprintf("Top Loser: %s (%s%% | %s)",
			worst.Asset, worst.ROIPct.StringFixed(2), FormatCurrency(worst.UnrealizedPnL))))
		b.WriteString("\n")
	}

	for _, alert := range snapshot.Alerts {
		b.WriteString(alertStyle.Render("! " + alert))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderSummary(summary domain.PortfolioSummary) string {
	metric := func(label string, value decimal.Decimal) string {
		return metricStyle.Render(label + "\n" + FormatCurrency(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metric("Total Invested", summary.TotalInvested),
		metric("Total Value", summary.TotalValue),
		metric("Unrealized P&L", summary.NetUnrealized),
		metric("Realized P&L", summary.RealizedPnL),
	)
}

func renderTable(rows []domain.SymbolPosition) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return cellStyle
			}
			var sign int
			switch col {
			case colUnrealized:
				sign = rows[row].UnrealizedPnL.Sign()
			case colROI:
				sign = rows[row].ROIPct.Sign()
			case colRealized:
				sign = rows[row].RealizedPnL.Sign()
			}
			switch {
			case sign > 0:
				return cellStyle.Foreground(gain)
			case sign < 0:
				return cellStyle.Foreground(loss)
			}
			return cellStyle
		})

	for _, row := range rows {
		t.Row(
			row.Asset,
			row.Symbol,
			row.Quantity.StringFixed(6),
			row.AverageBuyPrice.StringFixed(4),
			FormatCurrency(row.Invested),
			row.CurrentPrice.StringFixed(4),
			FormatCurrency(row.CurrentValue),
			FormatCurrency(row.UnrealizedPnL),
			row.ROIPct.StringFixed(2)+"%",
			FormatCurrency(row.RealizedPnL),
		)
	}

	return t.String()
}

// FormatCurrency formats v as dollars: two decimals with thousands separators
// when |v| >= 1, six decimals otherwise.
func FormatCurrency(v decimal.Decimal) string {
	places := int32(6)
	if v.Abs().GreaterThanOrEqual(decimal.NewFromInt(1)) {
		places = 2
	}
	rounded := v.Round(places)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	fixed := rounded.Abs().StringFixed(places)
	frac := fixed[strings.IndexByte(fixed, '.'):]
	return "$" + sign + humanize.BigComma(rounded.Abs().Truncate(0).BigInt()) + frac
}
