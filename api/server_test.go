package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"bookcatalog/catalog"
	"bookcatalog/models"
)

func testHandle() *catalog.Handle {
	books := []*models.Book{
		{Title: "A Light in the Attic", Price: 51.77, Rating: 3, Availability: "In stock", Category: "Poetry", ImageURL: "http://example.test/attic.jpg"},
		{Title: "Sharp Objects", Price: 47.82, Rating: 4, Availability: "In stock", Category: "Mystery", ImageURL: "http://example.test/sharp.jpg"},
		{Title: "Sapiens", Price: 54.23, Rating: 5, Availability: "In stock", Category: "Fictionnn", ImageURL: "http://example.test/sapiens.jpg"},
	}
	return catalog.NewHandle(catalog.New(books))
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status     string `json:"status"`
		TotalBooks int    `json:"total_books"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, 3, body.TotalBooks)
}

func TestListBooks(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books")
	require.Equal(t, http.StatusOK, rec.Code)

	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 3)
	require.Equal(t, 1, books[0].ID)
	require.Equal(t, "A Light in the Attic", books[0].Title)
	require.Equal(t, "Unknown", books[2].Category, "load normalizes off-list categories")
}

func TestGetBook(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var book models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	require.Equal(t, "Sharp Objects", book.Title)
}

func TestGetBookNotFound(t *testing.T) {
	srv := NewServer(testHandle())
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books/999")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBookBadID(t *testing.T) {
	srv := NewServer(testHandle())
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchBooks(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books/search?title=LIGHT")
	require.Equal(t, http.StatusOK, rec.Code)

	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	require.Equal(t, "A Light in the Attic", books[0].Title)
}

func TestSearchBooksNoFilterReturnsAll(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books/search")
	require.Equal(t, http.StatusOK, rec.Code)

	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 3)
}

func TestSearchBooksNoMatches(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books/search?title=zzz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestListCategories(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []catalog.CategoryCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Equal(t, []catalog.CategoryCount{
		{Name: "Mystery", Count: 1},
		{Name: "Poetry", Count: 1},
		{Name: "Unknown", Count: 1},
	}, counts)
}

func TestRequestIDHeader(t *testing.T) {
	srv := NewServer(testHandle())

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReloadSwapsCatalog(t *testing.T) {
	handle := testHandle()
	srv := NewServer(handle)

	handle.Swap(catalog.New([]*models.Book{
		{Title: "Fresh Crawl", Price: 1, Rating: 1, Availability: "In stock", Category: "Fiction", ImageURL: "http://example.test/f.jpg"},
	}))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/books")
	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	require.Equal(t, "Fresh Crawl", books[0].Title)
}
