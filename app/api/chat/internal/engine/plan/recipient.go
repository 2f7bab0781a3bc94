package plan

import (
	"regexp"

	"shopsage/app/api/chat/internal/engine/text"
	"shopsage/app/dal/catalog"
)

// Recipient detection exists to prevent mismatched-gender gift suggestions.
// The regexes run on normalized text; German variants are ASCII-folded.
var recipientPatterns = []struct {
	re        *regexp.Regexp
	recipient string
}{
	{regexp.MustCompile(`\bson\b|\bboy\b`), RecipientSon},
	{regexp.MustCompile(`\bdaughter\b|\bgirl\b`), RecipientDaughter},
	{regexp.MustCompile(`\bwife\b|\bgirlfriend\b|\bher\b`), RecipientWomen},
	{regexp.MustCompile(`\bhusband\b|\bboyfriend\b|\bhim\b`), RecipientMen},
	{regexp.MustCompile(`\bkid\b|\bkids\b|\bchild\b|\bchildren\b`), RecipientKids},
	{regexp.MustCompile(`\bsohn\b|\bjunge\b`), RecipientSon},
	{regexp.MustCompile(`\btochter\b|\bmaedchen\b`), RecipientDaughter},
	{regexp.MustCompile(`\bfrau\b|\bfreundin\b`), RecipientWomen},
	{regexp.MustCompile(`\bmann\b|\bfreund\b`), RecipientMen},
	{regexp.MustCompile(`\bkind\b|\bkinder\b`), RecipientKids},
}

// RecipientFor prefers the plan's own recipient and falls back to the
// keyword heuristic, so the safety rules apply even when the model plan
// failed or missed the recipient.
func RecipientFor(p Plan, message string) string {
	if validRecipient(p.Recipient) {
		return p.Recipient
	}
	t := text.Normalize(message)
	for _, pat := range recipientPatterns {
		if pat.re.MatchString(t) {
			return pat.recipient
		}
	}
	return ""
}

// ApplyRecipientRules layers the deterministic category preference and
// avoidance sets for a recipient onto the plan. Pure: no recipient means
// identity. The result sets stay within the catalog enumeration.
func ApplyRecipientRules(p Plan, recipient string) Plan {
	if recipient == "" {
		return p
	}

	avoid := toSet(p.AvoidCategories)
	prefer := toSet(p.PreferCategories)

	switch recipient {
	case RecipientSon, RecipientMen:
		avoid["Women's Clothing"] = struct{}{}
		avoid["Beauty"] = struct{}{}
		avoid["Jewelry"] = struct{}{}
		prefer["Men's Clothing"] = struct{}{}
		prefer["Sports"] = struct{}{}
		prefer["Electronics"] = struct{}{}
		prefer["Kids's Clothing"] = struct{}{} // a son may be a kid
	case RecipientDaughter, RecipientWomen:
		avoid["Men's Clothing"] = struct{}{}
		prefer["Women's Clothing"] = struct{}{}
		prefer["Beauty"] = struct{}{}
		prefer["Jewelry"] = struct{}{}
		prefer["Kids's Clothing"] = struct{}{} // a daughter may be a kid
	case RecipientKids:
		prefer["Kids's Clothing"] = struct{}{}
		prefer["Sports"] = struct{}{}
		prefer["Books"] = struct{}{}
		prefer["Electronics"] = struct{}{}
	default:
		return p
	}

	p.Recipient = recipient
	p.PreferCategories = orderedSubset(prefer)
	p.AvoidCategories = orderedSubset(avoid)
	return p
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// orderedSubset renders a set in catalog enumeration order, dropping
// anything outside the enumeration, so plans stay deterministic.
func orderedSubset(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for _, c := range catalog.Categories {
		if _, ok := set[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
