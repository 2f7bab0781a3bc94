// Package plan turns a shopper message into a structured search plan, via the
// chat model when one is configured and via deterministic heuristics when it
// is not (or when it fails).
package plan

import "shopsage/app/dal/catalog"

const (
	RecipientSon      = "son"
	RecipientDaughter = "daughter"
	RecipientMen      = "men"
	RecipientWomen    = "women"
	RecipientKids     = "kids"
)

// Plan is the structured interpretation of one shopper turn. Created fresh
// per request, never persisted. Category sets are always subsets of the
// catalog enumeration and K is always within [1, MaxK].
type Plan struct {
	Query            string
	Recipient        string
	MinPrice         *float64
	MaxPrice         *float64
	PreferCategories []string
	AvoidCategories  []string
	K                int
}

// HasConstraints reports whether the plan narrows the search at all; a
// constraint-free generic recommendation takes the bestseller path instead.
func (p Plan) HasConstraints() bool {
	return p.Recipient != "" ||
		len(p.PreferCategories) > 0 ||
		len(p.AvoidCategories) > 0 ||
		p.MinPrice != nil ||
		p.MaxPrice != nil
}

func validRecipient(r string) bool {
	switch r {
	case RecipientSon, RecipientDaughter, RecipientMen, RecipientWomen, RecipientKids:
		return true
	}
	return false
}

// sanitize enforces the plan invariants: categories within the enumeration,
// K clamped, price bounds ordered.
func (p Plan) sanitize(defaultK, maxK int) Plan {
	p.PreferCategories = catalog.FilterCategories(p.PreferCategories)
	p.AvoidCategories = catalog.FilterCategories(p.AvoidCategories)
	if !validRecipient(p.Recipient) {
		p.Recipient = ""
	}
	if p.MinPrice != nil && *p.MinPrice < 0 {
		p.MinPrice = nil
	}
	if p.MaxPrice != nil && *p.MaxPrice < 0 {
		p.MaxPrice = nil
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		p.MaxPrice = nil
	}
	p.K = ClampK(p.K, defaultK, maxK)
	return p
}

// ClampK bounds the requested result count to [1, maxK], with def for zero.
func ClampK(k, def, maxK int) int {
	if maxK <= 0 {
		maxK = 5
	}
	if k <= 0 {
		k = def
	}
	if k < 1 {
		k = 1
	}
	if k > maxK {
		k = maxK
	}
	return k
}
