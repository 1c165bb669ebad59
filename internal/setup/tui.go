// Package setup provides the interactive strategy editor.
package setup

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/martifolio/internal/domain"
	"github.com/vadiminshakov/martifolio/internal/storage/strategies"
)

// ErrCancelled is returned when the user declines to save.
var ErrCancelled = errors.New("strategy edit cancelled by user")

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

// thresholdInputs raw form values in domain.Levels order.
type thresholdInputs [4]string

// RunStrategyWizard edits the thresholds of one asset and saves them to store.
func RunStrategyWizard(ctx context.Context, store strategies.Store) error {
	current, err := store.Load(ctx)
	if err != nil && !errors.Is(err, strategies.ErrNotFound) {
		return err
	}

	var asset string

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STRATEGY LEVELS"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render(describe(current)))
	fmt.Println(stepStyle.Render("STEP 1: ASSET"))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Asset code").
				Description("e.g. BTC, ETH").
				Value(&asset).
				Validate(validateAsset),
		),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}
	asset = strings.ToUpper(strings.TrimSpace(asset))

	inputs := inputsFor(current[asset])

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STRATEGY LEVELS"))
	fmt.Println(stepStyle.Render("STEP 2: THRESHOLDS FOR " + asset))

	fields := make([]huh.Field, 0, len(domain.Levels))
	for i, kind := range domain.Levels {
		fields = append(fields, huh.NewInput().
			Title(kind.Label()).
			Description("Price in quote asset, 0 disables").
			Value(&inputs[i]).
			Validate(func(s string) error {
				_, err := parseThreshold(s)
				return err
			}))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx); err != nil {
		return err
	}

	strategy, err := buildStrategy(inputs)
	if err != nil {
		return err
	}

	var confirm bool
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary(asset, strategy)))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save strategy?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}
	if !confirm {
		return ErrCancelled
	}

	if err := strategies.Upsert(ctx, store, asset, strategy); err != nil {
		return errors.Wrap(err, "save strategy")
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("✓ Strategy saved for " + asset))
	return nil
}

func validateAsset(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("asset cannot be empty")
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return fmt.Errorf("asset must be alphanumeric")
		}
	}
	return nil
}

// parseThreshold accepts an empty value as 0 and rejects negatives.
func parseThreshold(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative")
	}
	return d, nil
}

func inputsFor(strategy domain.Strategy) thresholdInputs {
	var inputs thresholdInputs
	for i, kind := range domain.Levels {
		inputs[i] = strategy.Threshold(kind).String()
	}
	return inputs
}

func buildStrategy(inputs thresholdInputs) (domain.Strategy, error) {
	var values [4]decimal.Decimal
	for i, raw := range inputs {
		v, err := parseThreshold(raw)
		if err != nil {
			return domain.Strategy{}, errors.Wrapf(err, "%s", domain.Levels[i].Label())
		}
		values[i] = v
	}
	return domain.Strategy{
		LowBuy1:   values[0],
		LowBuy2:   values[1],
		HighSell1: values[2],
		HighSell2: values[3],
	}, nil
}

func summary(asset string, strategy domain.Strategy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Asset: %s\n", asset)
	for _, kind := range domain.Levels {
		fmt.Fprintf(&b, "%s: %s\n", kind.Label(), strategy.Threshold(kind).String())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func describe(current domain.Strategies) string {
	if len(current) == 0 {
		return "No strategies yet."
	}
	assets := make([]string, 0, len(current))
	for asset := range current {
		assets = append(assets, asset)
	}
	slices.Sort(assets)
	return "Configured: " + strings.Join(assets, ", ")
}
