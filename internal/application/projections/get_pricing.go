package projections

import (
	"context"
	"strconv"

	domainPricing "ascend/internal/domain/pricing"
)

// GetPricingQuery carries query parameters.
type GetPricingQuery struct {
	SelectedPlan string // raw ?plan= value
}

// GetPricingDeps holds dependencies for the pricing projections.
type GetPricingDeps struct {
	PlanStore PlanStore
}

// GetPricingResult carries the pricing page.
type GetPricingResult struct {
	Plans      []domainPricing.Plan
	SelectedID int64 // 0 when no listed plan is selected
}

// QueryGetPricing lists every plan, cheapest first.
// PRE: none
// POST: SelectedID is set only when it names a listed plan
func QueryGetPricing(ctx context.Context, query GetPricingQuery, deps GetPricingDeps) (GetPricingResult, error) {
	plans, err := deps.PlanStore.List(ctx)
	if err != nil {
		return GetPricingResult{}, err
	}
	result := GetPricingResult{Plans: plans}
	if id, err := strconv.ParseInt(query.SelectedPlan, 10, 64); err == nil {
		for _, p := range plans {
			if p.ID == id {
				result.SelectedID = id
				break
			}
		}
	}
	return result, nil
}

// GetCheckoutQuery identifies the plan being bought.
type GetCheckoutQuery struct {
	PlanID int64
}

// GetCheckoutResult carries the checkout page.
type GetCheckoutResult struct {
	Plan domainPricing.Plan
}

// QueryGetCheckout loads the plan for the checkout widget.
// PRE: PlanID > 0
// POST: Returns the plan or an error wrapping remote.ErrNotFound
func QueryGetCheckout(ctx context.Context, query GetCheckoutQuery, deps GetPricingDeps) (GetCheckoutResult, error) {
	plan, err := deps.PlanStore.GetByID(ctx, query.PlanID)
	if err != nil {
		return GetCheckoutResult{}, err
	}
	return GetCheckoutResult{Plan: plan}, nil
}
