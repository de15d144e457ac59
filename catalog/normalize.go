package catalog

import "strings"

// Unknown is the fallback category for absent, empty, or unrecognized input.
const Unknown = "Unknown"

// validCategories is the fixed allow-list of category names accepted by the
// store and the engine. Everything else normalizes to Unknown.
var validCategories = map[string]struct{}{
	"Fiction":            {},
	"Nonfiction":         {},
	"Fantasy":            {},
	"Mystery":            {},
	"Romance":            {},
	"Thriller":           {},
	"Science Fiction":    {},
	"Historical Fiction": {},
	"Young Adult":        {},
	"Childrens":          {},
	"Poetry":             {},
	"Classics":           {},
	"Horror":             {},
	"Sequential Art":     {},
	"History":            {},
	"Biography":          {},
	"Autobiography":      {},
	"Business":           {},
	"Self Help":          {},
	"Religion":           {},
	"Spirituality":       {},
	"Philosophy":         {},
	"Psychology":         {},
	"Science":            {},
	"Music":              {},
	"Art":                {},
	"Travel":             {},
	"Food and Drink":     {},
	"Health":             {},
	"Sports and Games":   {},
	"Humor":              {},
	"Parenting":          {},
	"Politics":           {},
	"Contemporary":       {},
	"Christian":          {},
	"Christian Fiction":  {},
	"Womens Fiction":     {},
	"New Adult":          {},
	"Crime":              {},
	"Suspense":           {},
	"Erotica":            {},
	"Academic":           {},
	"Cultural":           {},
	"Novels":             {},
	"Short Stories":      {},
	"Adult Fiction":      {},
	"Historical":         {},
	"Default":            {},
	Unknown:              {},
}

// ValidCategory reports whether name is on the allow-list.
func ValidCategory(name string) bool {
	_, ok := validCategories[name]
	return ok
}

// NormalizeCategory coerces empty, whitespace-only, or unrecognized input to
// Unknown. Idempotent: it is applied both at crawl time and by the repair
// pass over already-persisted stores.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || !ValidCategory(name) {
		return Unknown
	}
	return name
}
