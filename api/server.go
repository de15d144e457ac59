// Package api exposes the catalog's query operations over HTTP. It owns
// request parsing and status-code mapping only; every answer comes straight
// from the in-memory catalog.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bookcatalog/catalog"
	"bookcatalog/models"
)

// Server wires HTTP handlers to the active catalog.
type Server struct {
	router chi.Router
	handle *catalog.Handle
}

// NewServer constructs a Server with middleware and routes.
func NewServer(handle *catalog.Handle) *Server {
	s := &Server{handle: handle}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(recoverMiddleware)

	r.Get("/", s.root)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/books", s.listBooks)
		r.Get("/books/search", s.searchBooks)
		r.Get("/books/{book_id}", s.getBook)
		r.Get("/categories", s.listCategories)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Books API is running",
		"status":  "ok",
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"total_books": s.handle.Current().Len(),
	})
}

func (s *Server) listBooks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.handle.Current().All())
}

func (s *Server) searchBooks(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	results := s.handle.Current().Search(title)
	if results == nil {
		results = []*models.Book{} // empty result encodes as [], not null
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "book_id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "book id must be an integer")
		return
	}

	book, err := s.handle.Current().ByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book "+raw+" not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.handle.Current().CategoryCounts())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
