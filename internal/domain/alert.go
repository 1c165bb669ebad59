package domain

import "github.com/shopspring/decimal"

// Alert a strategy threshold crossed by the current price.
type Alert struct {
	Asset     string          `json:"asset"`
	Level     LevelKind       `json:"level"`
	Price     decimal.Decimal `json:"price"`
	Threshold decimal.Decimal `json:"threshold"`
	Message   string          `json:"message"`
}

// String returns the alert message.
func (a Alert) String() string {
	return a.Message
}

// AlertMessages extracts messages preserving order.
func AlertMessages(alerts []Alert) []string {
	messages := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		messages = append(messages, alert.Message)
	}
	return messages
}
