package parser

import (
	"errors"
	"testing"

	"bookcatalog/models"
)

func TestValidateBook(t *testing.T) {
	tests := []struct {
		name    string
		book    *models.Book
		wantErr bool
	}{
		{
			name: "valid book",
			book: &models.Book{
				Title:        "Test Book",
				Price:        10.00,
				Rating:       5,
				Availability: "In stock",
				ImageURL:     "http://example.test/img.png",
				URL:          "http://example.test/book/1",
			},
			wantErr: false,
		},
		{
			name:    "nil book",
			book:    nil,
			wantErr: true,
		},
		{
			name: "missing title",
			book: &models.Book{
				Title:        "",
				Price:        10.00,
				Availability: "In stock",
				ImageURL:     "http://example.test/img.png",
			},
			wantErr: true,
		},
		{
			name: "missing availability",
			book: &models.Book{
				Title:    "Test Book",
				Price:    10.00,
				ImageURL: "http://example.test/img.png",
			},
			wantErr: true,
		},
		{
			name: "missing image",
			book: &models.Book{
				Title:        "Test Book",
				Price:        10.00,
				Availability: "In stock",
			},
			wantErr: true,
		},
		{
			name: "negative price",
			book: &models.Book{
				Title:        "Test Book",
				Price:        -1,
				Availability: "In stock",
				ImageURL:     "http://example.test/img.png",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBook(tt.book)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBook() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{
			name:     "with currency symbol",
			input:    "£51.77",
			expected: 51.77,
		},
		{
			name:     "with mojibake currency symbol",
			input:    "Â£10.50",
			expected: 10.50,
		},
		{
			name:     "with whitespace",
			input:    "  £25.99  ",
			expected: 25.99,
		},
		{
			name:     "already clean",
			input:    "25.99",
			expected: 25.99,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "£abc",
			wantErr: true,
		},
		{
			name:    "negative",
			input:   "-1.50",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := ParsePrice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePrice(%q) expected error, got %v", tt.input, price)
				}
				if !errors.Is(err, ErrMalformedFragment) {
					t.Fatalf("ParsePrice(%q) error = %v, want ErrMalformedFragment", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) error = %v", tt.input, err)
			}
			if price != tt.expected {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, price, tt.expected)
			}
		})
	}
}

func TestRatingToNumeric(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "One", input: "One", expected: 1},
		{name: "Two", input: "Two", expected: 2},
		{name: "Three", input: "Three", expected: 3},
		{name: "Four", input: "Four", expected: 4},
		{name: "Five", input: "Five", expected: 5},
		{name: "unrecognized token", input: "Invalid", expected: 0},
		{name: "empty string", input: "", expected: 0},
		{name: "lowercase", input: "three", expected: 0},
		{name: "padded", input: "  Four  ", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RatingToNumeric(tt.input)
			if result != tt.expected {
				t.Errorf("RatingToNumeric(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeAvailability(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "with whitespace",
			input:    "  In stock (22 available)  ",
			expected: "In stock (22 available)",
		},
		{
			name:     "no whitespace",
			input:    "In stock",
			expected: "In stock",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAvailability(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeAvailability(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
