package entitlement

import (
	"errors"
	"fmt"
)

// Plan is a named subscription tier determining the monthly token allowance.
type Plan string

const (
	PlanFree  Plan = "free"
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

// FreeTierAllowance is the monthly token grant for accounts without a paid
// plan. The free tier always carries exactly this allowance.
const FreeTierAllowance int64 = 5

// IsValid reports whether the plan is one of the known tiers.
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPro:
		return true
	}
	return false
}

// IsPaid reports whether the plan is a purchasable tier.
// The free tier is never purchased, only assigned by default or downgrade.
func (p Plan) IsPaid() bool {
	return p == PlanBasic || p == PlanPro
}

// ParsePlan converts a raw string (e.g. from webhook custom data) into a Plan.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
	return p, nil
}

// Catalog maps each plan to its monthly token allowance.
type Catalog map[Plan]int64

// DefaultCatalog returns the built-in allowance table.
func DefaultCatalog() Catalog {
	return Catalog{
		PlanFree:  FreeTierAllowance,
		PlanBasic: 30,
		PlanPro:   250,
	}
}

// Allowance returns the monthly allowance for a plan.
func (c Catalog) Allowance(p Plan) (int64, error) {
	allowance, ok := c[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlan, p)
	}
	return allowance, nil
}

// validateCatalog ensures the plan table is internally consistent.
// Catches configuration errors early rather than at spend time.
func validateCatalog(c Catalog) error {
	for _, p := range []Plan{PlanFree, PlanBasic, PlanPro} {
		allowance, ok := c[p]
		if !ok {
			return errors.Join(ErrInvalidCatalog,
				fmt.Errorf("plan %q missing from catalog", p))
		}
		if allowance < 0 {
			return errors.Join(ErrInvalidCatalog,
				fmt.Errorf("plan %q has negative allowance: %d", p, allowance))
		}
	}
	if c[PlanFree] != FreeTierAllowance {
		return errors.Join(ErrInvalidCatalog,
			fmt.Errorf("free tier allowance must be %d, got %d", FreeTierAllowance, c[PlanFree]))
	}
	return nil
}
