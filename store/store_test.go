package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bookcatalog/models"
)

func sampleBooks() []*models.Book {
	return []*models.Book{
		{
			Title:        "A Light in the Attic",
			Price:        51.77,
			Rating:       3,
			Availability: "In stock (22 available)",
			Category:     "Poetry",
			ImageURL:     "http://example.test/media/attic.jpg",
		},
		{
			Title:        "Tipping the Velvet",
			Price:        53.74,
			Rating:       1,
			Availability: "In stock",
			Category:     "Historical Fiction",
			ImageURL:     "http://example.test/media/velvet.jpg",
		},
		{
			Title:        "Soumission",
			Price:        50,
			Rating:       0,
			Availability: "Out of stock",
			Category:     "Unknown",
			ImageURL:     "http://example.test/media/soumission.jpg",
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	books := sampleBooks()

	writer, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(books))
	require.NoError(t, writer.Validate())
	require.NoError(t, writer.Close())

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(books))

	for i, want := range books {
		got := loaded[i]
		require.Equal(t, want.Title, got.Title)
		require.Equal(t, want.Price, got.Price)
		require.Equal(t, want.Rating, got.Rating)
		require.Equal(t, want.Availability, got.Availability)
		require.Equal(t, want.Category, got.Category)
		require.Equal(t, want.ImageURL, got.ImageURL)
		require.Zero(t, got.ID, "ids are not part of the store")
	}
}

func TestCSVWriterHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")

	writer, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "title,price,rating,availability,category,image_url\n", string(data))
}

func TestReadLegacyStore(t *testing.T) {
	legacy := strings.Join([]string{
		"title,price,rating,availability,image_url",
		"A Light in the Attic,51.77,3,In stock,http://example.test/attic.jpg",
		"Soumission,50.10,1,In stock,http://example.test/soumission.jpg",
	}, "\n")

	books, err := Read(strings.NewReader(legacy))
	require.NoError(t, err)
	require.Len(t, books, 2)

	for _, book := range books {
		require.Empty(t, book.Category, "legacy records carry no category")
	}
	require.Equal(t, "http://example.test/attic.jpg", books[0].ImageURL)
	require.Equal(t, 51.77, books[0].Price)
}

func TestReadRejectsCorruptStore(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "empty file",
			input: "",
		},
		{
			name:  "unknown header",
			input: "name,cost\nfoo,1",
		},
		{
			name: "short data row",
			input: "title,price,rating,availability,category,image_url\n" +
				"A Light in the Attic,51.77,3",
		},
		{
			name: "unparseable price",
			input: "title,price,rating,availability,category,image_url\n" +
				"A Light in the Attic,expensive,3,In stock,Poetry,http://example.test/x.jpg",
		},
		{
			name: "unparseable rating",
			input: "title,price,rating,availability,category,image_url\n" +
				"A Light in the Attic,51.77,lots,In stock,Poetry,http://example.test/x.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}

func TestJSONWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.jsonl")

	writer, err := NewJSONWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(sampleBooks()))
	require.NoError(t, writer.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.Book
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &decoded))
		count++
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, 3, count)
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "books.csv")
	jsonPath := filepath.Join(dir, "books.jsonl")

	writer, err := NewDualWriter(csvPath, jsonPath)
	require.NoError(t, err)
	require.NoError(t, writer.Write(sampleBooks()))
	require.NoError(t, writer.Validate())
	require.NoError(t, writer.Close())

	csvInfo, err := os.Stat(csvPath)
	require.NoError(t, err)
	require.NotZero(t, csvInfo.Size())

	jsonInfo, err := os.Stat(jsonPath)
	require.NoError(t, err)
	require.NotZero(t, jsonInfo.Size())
}
