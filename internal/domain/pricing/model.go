package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCurrency is used when a plan has no currency set.
const DefaultCurrency = "USD"

// Domain errors
var (
	ErrEmptyName    = errors.New("plan name cannot be empty")
	ErrInvalidPrice = errors.New("plan price cannot be negative")
)

// Plan is one entry of the pricing catalog.
type Plan struct {
	ID        int64    `json:"id,omitempty"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Currency  string   `json:"currency"`
	Period    string   `json:"period"`
	Features  []string `json:"features"`
	IsPopular bool     `json:"is_popular"`
	Badge     string   `json:"badge"`
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
func (p Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// IsFree reports whether the plan costs nothing.
func (p Plan) IsFree() bool {
	return p.Price == 0
}

// DisplayPrice renders the price with its currency symbol, e.g. "$49" or "$49.50".
func (p Plan) DisplayPrice() string {
	symbol := "$"
	switch strings.ToUpper(p.Currency) {
	case "EUR":
		symbol = "€"
	case "GBP":
		symbol = "£"
	}
	if p.Price == float64(int64(p.Price)) {
		return fmt.Sprintf("%s%d", symbol, int64(p.Price))
	}
	return fmt.Sprintf("%s%.2f", symbol, p.Price)
}

// AmountMinor returns the price in minor currency units for the checkout widget.
func (p Plan) AmountMinor() int64 {
	return int64(p.Price*100 + 0.5)
}

// CurrencyCode returns the plan currency, defaulting to DefaultCurrency.
func (p Plan) CurrencyCode() string {
	if p.Currency == "" {
		return DefaultCurrency
	}
	return strings.ToUpper(p.Currency)
}
