// Package parser holds the pure field conversions used while extracting
// items from listing pages.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookcatalog/models"
)

// ErrMalformedFragment marks an item fragment missing a required structural
// anchor. It aborts that single item, never the page it came from.
var ErrMalformedFragment = errors.New("malformed fragment")

// ValidateBook ensures the extractor captured the required fields.
func ValidateBook(b *models.Book) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("book missing title")
	}
	if b.Price < 0 {
		return fmt.Errorf("book %q has negative price", b.Title)
	}
	if strings.TrimSpace(b.Availability) == "" {
		return fmt.Errorf("book %q missing availability", b.Title)
	}
	if strings.TrimSpace(b.ImageURL) == "" {
		return fmt.Errorf("book %q missing image URL", b.Title)
	}
	return nil
}

// ParsePrice strips the currency marker and parses the remainder as a
// non-negative decimal. The source serves "£" which arrives as "Â£" when
// the response encoding is mishandled; both forms are stripped.
func ParsePrice(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "Â£", "")
	cleaned = strings.ReplaceAll(cleaned, "£", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty price", ErrMalformedFragment)
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q: %v", ErrMalformedFragment, raw, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: negative price %q", ErrMalformedFragment, raw)
	}
	return price, nil
}

// RatingToNumeric maps the textual rating token to a numeric scale. An
// unrecognized token maps to 0, never an error: the rating markup is the
// least stable field on the source site.
func RatingToNumeric(rating string) int {
	switch strings.TrimSpace(rating) {
	case "One":
		return 1
	case "Two":
		return 2
	case "Three":
		return 3
	case "Four":
		return 4
	case "Five":
		return 5
	default:
		return 0
	}
}

// NormalizeAvailability trims surrounding whitespace and keeps the text
// verbatim; the site produces more variants than a simple in/out binary.
func NormalizeAvailability(text string) string {
	return strings.TrimSpace(text)
}
