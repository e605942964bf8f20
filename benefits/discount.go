package benefits

import "strings"

// QualifiesForDiscount reports whether a name falls under the discount rule:
// after trimming surrounding whitespace and lower-casing, it starts with "a".
func QualifiesForDiscount(name string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), "a")
}

// DiscountFactor returns the multiplier applied to a person's cost: the
// configured discount for qualifying names, 1 for everyone else.
// Defined for every string, including "".
func (r Rates) DiscountFactor(name string) float64 {
	if QualifiesForDiscount(name) {
		return r.DiscountMultiplier
	}
	return 1
}

// IsDiscountEligible is the boolean view of DiscountFactor used for
// highlighting. It is true exactly when DiscountFactor(name) < 1, so with a
// configured multiplier of 1 nobody is eligible.
func (r Rates) IsDiscountEligible(name string) bool {
	return r.DiscountFactor(name) < 1
}
