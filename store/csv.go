// Package store implements the durable flat-file representation of the
// catalog: a header-described CSV with a fixed column order, plus JSONL and
// dual-format writers for downstream tooling.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"bookcatalog/models"
)

// Header lists the store columns in their fixed order.
var Header = []string{"title", "price", "rating", "availability", "category", "image_url"}

// legacyHeader is the pre-category store layout. Files written before the
// category column existed must still load.
var legacyHeader = []string{"title", "price", "rating", "availability", "image_url"}

// CSVWriter writes records in the store format.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a store writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends books to the store.
func (cw *CSVWriter) Write(books []*models.Book) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, book := range books {
		if err := cw.writer.Write(encodeRow(book)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

func encodeRow(book *models.Book) []string {
	return []string{
		book.Title,
		strconv.FormatFloat(book.Price, 'f', -1, 64),
		strconv.Itoa(book.Rating),
		book.Availability,
		book.Category,
		book.ImageURL,
	}
}

// Read decodes store records from r. It accepts both the current six-column
// layout and the legacy five-column layout without a category; legacy
// records come back with an empty category for the normalizer to fill.
// Ids are not part of the store and are never produced here.
func Read(r io.Reader) ([]*models.Book, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("store is empty: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	hasCategory, err := matchHeader(header)
	if err != nil {
		return nil, err
	}

	var books []*models.Book
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// wrong column count on a data row is structural corruption
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		book, err := decodeRow(row, hasCategory)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		books = append(books, book)
	}
	return books, nil
}

// ReadFile decodes the store at path.
func ReadFile(path string) ([]*models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func matchHeader(header []string) (hasCategory bool, err error) {
	if equalFields(header, Header) {
		return true, nil
	}
	if equalFields(header, legacyHeader) {
		return false, nil
	}
	return false, fmt.Errorf("unrecognized store header: %v", header)
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func decodeRow(row []string, hasCategory bool) (*models.Book, error) {
	price, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", row[1], err)
	}
	rating, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, fmt.Errorf("invalid rating %q: %w", row[2], err)
	}

	book := &models.Book{
		Title:        row[0],
		Price:        price,
		Rating:       rating,
		Availability: row[3],
	}
	if hasCategory {
		book.Category = row[4]
		book.ImageURL = row[5]
	} else {
		book.ImageURL = row[4]
	}
	return book, nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
