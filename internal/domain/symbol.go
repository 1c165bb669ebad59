package domain

import "strings"

// quotePreference is scanned after the caller's preferred quote when looking up a market for an asset.
var quotePreference = []string{"USDT", "BUSD", "FDUSD", "TUSD", "BTC", "BNB", "ETH"}

// ResolveSymbol finds the market an asset is best priced in. It tries the
// preferred quote, then quotePreference, then the first symbol in feed order
// that starts with the asset code.
func ResolveSymbol(asset string, prices *Prices, preferredQuote string) (string, bool) {
	asset = strings.ToUpper(asset)

	quotes := append([]string{preferredQuote}, quotePreference...)
	for _, quote := range quotes {
		symbol := asset + quote
		if prices.Has(symbol) {
			return symbol, true
		}
	}

	return prices.FirstWithPrefix(asset)
}

// MatchSymbol is the narrower lookup used when building portfolio rows:
// asset+preferredQuote, otherwise the first symbol starting with the asset.
func MatchSymbol(asset string, prices *Prices, preferredQuote string) (string, bool) {
	if symbol := asset + preferredQuote; prices.Has(symbol) {
		return symbol, true
	}

	return prices.FirstWithPrefix(asset)
}
