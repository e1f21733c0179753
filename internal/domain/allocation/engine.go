// Package allocation implements the two debt decision-support algorithms:
// the avalanche repayment split and the minimum-interest purchase split.
// Both are pure functions over a point-in-time snapshot of card balances,
// limits and rates; they never touch storage.
package allocation

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardSnapshot is a point-in-time view of one credit card
type CardSnapshot struct {
	ID             uuid.UUID
	Name           string
	Balance        decimal.Decimal
	AvailableLimit decimal.Decimal
	InterestRate   decimal.Decimal
}

// RepaymentRecommendation is the avalanche allocation for one card
type RepaymentRecommendation struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	CurrentDebt        decimal.Decimal `json:"current_debt"`
	RecommendedPayment decimal.Decimal `json:"recommended_payment"`
}

// RepaymentPlan is the result of AllocateRepayment
type RepaymentPlan struct {
	Recommendations []RepaymentRecommendation `json:"recommendations"`
	TotalDebt       decimal.Decimal           `json:"total_debt"`
	Unallocated     decimal.Decimal           `json:"remaining_amount_to_allocate"`
}

// PurchaseRecommendation is the purchase-funding allocation for one card
type PurchaseRecommendation struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	AvailableLimit   decimal.Decimal `json:"available_limit"`
	RecommendedUsage decimal.Decimal `json:"recommended_usage"`
}

// PurchasePlan is the result of AllocatePurchase
type PurchasePlan struct {
	Possible        bool                     `json:"possible"`
	TotalAvailable  decimal.Decimal          `json:"total_available"`
	Recommendations []PurchaseRecommendation `json:"recommendations"`
}

// AllocateRepayment splits amount across cards using the avalanche method:
// highest interest rate first, id ascending on rate ties for determinism.
// Each card receives at most its outstanding balance, so the allocations
// always sum to min(amount, total debt).
func AllocateRepayment(amount decimal.Decimal, cards []CardSnapshot) RepaymentPlan {
	ordered := make([]CardSnapshot, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		if c := ordered[i].InterestRate.Cmp(ordered[j].InterestRate); c != 0 {
			return c > 0
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	plan := RepaymentPlan{
		Recommendations: make([]RepaymentRecommendation, 0, len(ordered)),
		TotalDebt:       decimal.Zero,
	}

	remaining := amount
	for _, card := range ordered {
		plan.TotalDebt = plan.TotalDebt.Add(card.Balance)

		payment := decimal.Min(remaining, card.Balance)
		if payment.IsNegative() {
			payment = decimal.Zero
		}
		remaining = remaining.Sub(payment)

		plan.Recommendations = append(plan.Recommendations, RepaymentRecommendation{
			ID:                 card.ID,
			Name:               card.Name,
			InterestRate:       card.InterestRate,
			CurrentDebt:        card.Balance,
			RecommendedPayment: payment,
		})
	}

	if remaining.IsPositive() {
		plan.Unallocated = remaining
	} else {
		plan.Unallocated = decimal.Zero
	}
	return plan
}

// AllocatePurchase splits amount across cards minimizing interest cost:
// lowest interest rate first, id ascending on rate ties. Each card is used
// up to its available limit. When the amount exceeds the total available
// limit the plan is marked infeasible but still carries the maximal partial
// allocation, so callers can show how much is coverable.
func AllocatePurchase(amount decimal.Decimal, cards []CardSnapshot) PurchasePlan {
	ordered := make([]CardSnapshot, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		if c := ordered[i].InterestRate.Cmp(ordered[j].InterestRate); c != 0 {
			return c < 0
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	plan := PurchasePlan{
		TotalAvailable:  decimal.Zero,
		Recommendations: make([]PurchaseRecommendation, 0, len(ordered)),
	}
	for _, card := range ordered {
		plan.TotalAvailable = plan.TotalAvailable.Add(card.AvailableLimit)
	}
	plan.Possible = amount.LessThanOrEqual(plan.TotalAvailable)

	remaining := amount
	for _, card := range ordered {
		usage := decimal.Min(remaining, card.AvailableLimit)
		if usage.IsNegative() {
			usage = decimal.Zero
		}
		remaining = remaining.Sub(usage)

		plan.Recommendations = append(plan.Recommendations, PurchaseRecommendation{
			ID:               card.ID,
			Name:             card.Name,
			InterestRate:     card.InterestRate,
			AvailableLimit:   card.AvailableLimit,
			RecommendedUsage: usage,
		})
	}

	return plan
}
