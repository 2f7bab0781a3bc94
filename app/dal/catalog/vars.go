package catalog

// Categories is the closed category enumeration of the product schema.
// Plan constraints are always filtered against this set.
var Categories = []string{
	"Electronics",
	"Jewelry",
	"Men's Clothing",
	"Women's Clothing",
	"Kids's Clothing",
	"Books",
	"Home",
	"Beauty",
	"Sports",
	"Other",
}

// ValidCategory reports whether c is part of the category enumeration.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// FilterCategories drops every value that is not in the category enumeration.
func FilterCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if ValidCategory(c) {
			out = append(out, c)
		}
	}
	return out
}
