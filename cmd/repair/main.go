// Command repair rewrites an existing catalog store with every category
// normalized against the allow-list. Legacy five-column stores are upgraded
// to the current six-column layout in the same pass.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"bookcatalog/catalog"
	"bookcatalog/models"
	"bookcatalog/store"
)

func main() {
	defaultStore := "data/books.csv"
	if value, ok := os.LookupEnv("BOOKS_STORE"); ok && value != "" {
		defaultStore = value
	}
	storePath := flag.String("store", defaultStore, "Path to the catalog store file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := repair(*storePath); err != nil {
		slog.Error("repair failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func repair(path string) error {
	books, err := store.ReadFile(path)
	if err != nil {
		return err
	}

	for _, book := range books {
		book.Category = catalog.NormalizeCategory(book.Category)
	}

	// write to a sibling temp file and rename so a failed run never
	// truncates the store
	tmp := path + ".tmp"
	writer, err := store.NewCSVWriter(tmp)
	if err != nil {
		return err
	}
	if err := writer.Write(books); err != nil {
		writer.Close()
		os.Remove(tmp)
		return err
	}
	if err := writer.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	printStats(path, books)
	return nil
}

func printStats(path string, books []*models.Book) {
	counts := make(map[string]int)
	for _, book := range books {
		counts[book.Category]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Printf("Store repaired: %s\n", path)
	fmt.Printf("Total books: %d\n", len(books))
	fmt.Printf("\nCategories (%d):\n", len(counts))
	for _, name := range names {
		fmt.Printf("  %s: %d\n", name, counts[name])
	}
}
