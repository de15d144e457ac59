package scraper

import (
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"

	"bookcatalog/models"
	"bookcatalog/parser"
)

// extractBook pulls the typed fields out of one item fragment. Any missing
// structural anchor or unparseable price yields ErrMalformedFragment; the
// caller drops that single item and continues the page.
func extractBook(e *colly.HTMLElement) (*models.Book, error) {
	title := strings.TrimSpace(e.ChildAttr("h3 a", "title"))
	if title == "" {
		return nil, fmt.Errorf("%w: missing title anchor", parser.ErrMalformedFragment)
	}

	href := e.ChildAttr("h3 a", "href")
	if href == "" {
		return nil, fmt.Errorf("%w: missing detail link for %q", parser.ErrMalformedFragment, title)
	}
	detailURL := e.Request.AbsoluteURL(href)

	priceText := e.ChildText("p.price_color")
	if strings.TrimSpace(priceText) == "" {
		return nil, fmt.Errorf("%w: missing price marker for %q", parser.ErrMalformedFragment, title)
	}
	price, err := parser.ParsePrice(priceText)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", title, err)
	}

	ratingClass := e.ChildAttr("p.star-rating", "class")
	if ratingClass == "" {
		return nil, fmt.Errorf("%w: missing rating marker for %q", parser.ErrMalformedFragment, title)
	}
	ratingToken := ""
	if parts := strings.Fields(ratingClass); len(parts) > 1 {
		ratingToken = parts[1]
	}
	// an unrecognized token becomes rating 0, never an error

	availability := parser.NormalizeAvailability(e.ChildText("p.instock.availability"))
	if availability == "" {
		availability = parser.NormalizeAvailability(e.ChildText("p.availability"))
	}
	if availability == "" {
		return nil, fmt.Errorf("%w: missing availability marker for %q", parser.ErrMalformedFragment, title)
	}

	imageRef := e.ChildAttr("img", "src")
	if imageRef == "" {
		return nil, fmt.Errorf("%w: missing image reference for %q", parser.ErrMalformedFragment, title)
	}

	return &models.Book{
		Title:        title,
		Price:        price,
		Rating:       parser.RatingToNumeric(ratingToken),
		Availability: availability,
		ImageURL:     e.Request.AbsoluteURL(imageRef),
		URL:          detailURL,
	}, nil
}
