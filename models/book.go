// Package models defines the data structures shared across the catalog.
package models

import "time"

// Book represents one catalog entry. ID is assigned by the catalog engine
// when a store file is loaded; it is never persisted and is reassigned from
// scratch on every load.
type Book struct {
	ID           int     `json:"id,omitempty"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Rating       int     `json:"rating"`
	Availability string  `json:"availability"`
	Category     string  `json:"category"`
	ImageURL     string  `json:"image_url"`

	// URL is the item's detail page, used for dedupe and category
	// resolution during a crawl. Not part of the store format.
	URL string `json:"-"`
}

// CrawlResult holds the overall outcome of a crawl.
type CrawlResult struct {
	StartTime         time.Time
	EndTime           time.Time
	PageCount         int
	RequestCount      int
	ItemCount         int
	MalformedCount    int
	ResolverFallbacks int
	ErrorCount        int
	FailedURLs        []string
	ErrorsByType      map[string]int
}
