package pricing_test

import (
	"errors"
	"testing"

	"ascend/internal/domain/pricing"
)

// TestPlan_Validate tests validation of Plan.
func TestPlan_Validate(t *testing.T) {
	if err := (pricing.Plan{Name: "Starter"}).Validate(); err != nil {
		t.Errorf("valid plan = %v", err)
	}
	if err := (pricing.Plan{Name: " "}).Validate(); !errors.Is(err, pricing.ErrEmptyName) {
		t.Errorf("empty name = %v, want ErrEmptyName", err)
	}
	if err := (pricing.Plan{Name: "Starter", Price: -1}).Validate(); !errors.Is(err, pricing.ErrInvalidPrice) {
		t.Errorf("negative price = %v, want ErrInvalidPrice", err)
	}
}

// TestPlan_DisplayPrice verifies whole prices drop the cents and symbols follow currency.
func TestPlan_DisplayPrice(t *testing.T) {
	tests := []struct {
		plan pricing.Plan
		want string
	}{
		{pricing.Plan{Price: 49}, "$49"},
		{pricing.Plan{Price: 49.5, Currency: "usd"}, "$49.50"},
		{pricing.Plan{Price: 12, Currency: "GBP"}, "£12"},
		{pricing.Plan{Price: 0, Currency: "EUR"}, "€0"},
	}
	for _, tt := range tests {
		if got := tt.plan.DisplayPrice(); got != tt.want {
			t.Errorf("DisplayPrice(%v %s) = %q, want %q", tt.plan.Price, tt.plan.Currency, got, tt.want)
		}
	}
}

// TestPlan_CheckoutAmounts verifies minor units and the default currency.
func TestPlan_CheckoutAmounts(t *testing.T) {
	p := pricing.Plan{Price: 49.99}
	if got := p.AmountMinor(); got != 4999 {
		t.Errorf("AmountMinor() = %d, want 4999", got)
	}
	if got := p.CurrencyCode(); got != pricing.DefaultCurrency {
		t.Errorf("CurrencyCode() = %q, want %q", got, pricing.DefaultCurrency)
	}
	if got := (pricing.Plan{Currency: "nzd"}).CurrencyCode(); got != "NZD" {
		t.Errorf("CurrencyCode() = %q, want NZD", got)
	}
	if !(pricing.Plan{}).IsFree() {
		t.Error("zero price is not free")
	}
}
