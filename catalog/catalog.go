// Package catalog loads the persisted store into memory and answers point
// lookups, substring search, and aggregate grouping over it. It also owns
// the category allow-list enforced on every record, whatever its origin.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bookcatalog/models"
	"bookcatalog/store"
)

// ErrNotFound signals a point-lookup miss. A normal query outcome, not a
// failure.
var ErrNotFound = errors.New("book not found")

// LoadError wraps any failure to build a catalog from a store file. A single
// malformed row fails the whole load; partial catalogs are not served.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Catalog is the complete in-memory record set. Immutable after New; safe
// for concurrent readers without locking.
type Catalog struct {
	books []*models.Book
	byID  map[int]*models.Book
}

// Load reads the store at path, normalizes every record, and assigns
// sequential ids in file order starting at 1. Ids are stable only for this
// load of this file version.
func Load(path string) (*Catalog, error) {
	books, err := store.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return New(books), nil
}

// New builds a catalog from records already in memory, normalizing each and
// assigning ids in slice order.
func New(books []*models.Book) *Catalog {
	byID := make(map[int]*models.Book, len(books))
	for i, book := range books {
		book.ID = i + 1
		book.Category = NormalizeCategory(book.Category)
		byID[book.ID] = book
	}
	return &Catalog{books: books, byID: byID}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.books)
}

// All returns every record in load order.
func (c *Catalog) All() []*models.Book {
	out := make([]*models.Book, len(c.books))
	copy(out, c.books)
	return out
}

// ByID returns the record with the given id, or ErrNotFound.
func (c *Catalog) ByID(id int) (*models.Book, error) {
	book, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return book, nil
}

// Search returns the records whose title contains the given substring,
// compared case-insensitively. An empty substring means "no filter applied"
// and returns the full catalog in load order.
func (c *Catalog) Search(title string) []*models.Book {
	if title == "" {
		return c.All()
	}

	needle := strings.ToLower(title)
	var out []*models.Book
	for _, book := range c.books {
		if strings.Contains(strings.ToLower(book.Title), needle) {
			out = append(out, book)
		}
	}
	return out
}

// GroupByCategory returns a count of records per category name.
func (c *Catalog) GroupByCategory() map[string]int {
	counts := make(map[string]int)
	for _, book := range c.books {
		counts[book.Category]++
	}
	return counts
}

// CategoryCount pairs a category name with its record count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryCounts returns per-category counts ordered lexicographically by
// category name.
func (c *Catalog) CategoryCounts() []CategoryCount {
	grouped := c.GroupByCategory()
	out := make([]CategoryCount, 0, len(grouped))
	for name, count := range grouped {
		out = append(out, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
