package library

// CheckoutPolicy is the per-tier pair of checkout limit and loan period.
type CheckoutPolicy struct {
	MaxBooks       int
	LoanPeriodDays int
}

// CanCheckout reports whether the member is under the policy's limit.
func (p CheckoutPolicy) CanCheckout(m *Member) bool {
	return m.BooksCheckedOut < p.MaxBooks
}

// Policies maps each membership tier to its checkout policy. The table is
// built once at startup; lookups for unregistered tiers fail.
type Policies map[MembershipTier]CheckoutPolicy

// DefaultPolicies returns the stock tier policies.
func DefaultPolicies() Policies {
	return Policies{
		TierRegular: {MaxBooks: 3, LoanPeriodDays: 14},
		TierStudent: {MaxBooks: 5, LoanPeriodDays: 21},
		TierPremium: {MaxBooks: 10, LoanPeriodDays: 30},
	}
}

// For returns the policy for a tier or an UnknownTierError.
func (ps Policies) For(tier MembershipTier) (CheckoutPolicy, error) {
	p, ok := ps[tier]
	if !ok {
		return CheckoutPolicy{}, &UnknownTierError{Tier: tier}
	}
	return p, nil
}

// FeeRule computes the late fee owed for a number of whole days late.
// daysLate is never negative and a rule must return a non-negative amount.
type FeeRule func(daysLate int) float64

// PerDayFee builds a rule charging a flat rate per day late.
func PerDayFee(rate float64) FeeRule {
	return func(daysLate int) float64 { return rate * float64(daysLate) }
}

// NoFee waives late fees entirely.
func NoFee() FeeRule {
	return func(int) float64 { return 0 }
}

// FeeRules maps each membership tier to its late-fee rule.
type FeeRules map[MembershipTier]FeeRule

// DefaultFeeRules returns the stock tier fee rules: regular members pay
// $0.50 per day late, students $0.25, premium members nothing.
func DefaultFeeRules() FeeRules {
	return FeeRules{
		TierRegular: PerDayFee(0.50),
		TierStudent: PerDayFee(0.25),
		TierPremium: NoFee(),
	}
}

// For returns the fee rule for a tier or an UnknownTierError.
func (fs FeeRules) For(tier MembershipTier) (FeeRule, error) {
	f, ok := fs[tier]
	if !ok {
		return nil, &UnknownTierError{Tier: tier}
	}
	return f, nil
}
