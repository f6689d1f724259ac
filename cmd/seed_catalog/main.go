package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"library-checkout/library"
)

type seedBook struct {
	isbn, title, author, published string
}

type seedMember struct {
	name, email, tier, password string
}

func main() {
	dbPath := os.Getenv("LIBRARY_DB_PATH")
	if dbPath == "" {
		dbPath = "library.db"
	}

	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{dbPath, dbPath + "-shm", dbPath + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Database cleanup complete.")

	store, err := library.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	lib := library.NewLibrary(store, library.NewConsoleNotifier(os.Stdout, nil))

	books := []seedBook{
		{"978-0132350884", "Clean Code", "Robert C. Martin", "2008-08-01"},
		{"978-0201616224", "The Pragmatic Programmer", "Andrew Hunt", "1999-10-20"},
		{"978-0451524935", "1984", "George Orwell", "1949-06-08"},
		{"978-0452284241", "Animal Farm", "George Orwell", "1945-08-17"},
		{"978-0547928210", "The Fellowship of the Ring", "J.R.R. Tolkien", "1954-07-29"},
		{"978-0547928203", "The Two Towers", "J.R.R. Tolkien", "1954-11-11"},
		{"978-0547928197", "The Return of the King", "J.R.R. Tolkien", "1955-10-20"},
		{"978-0743477116", "Romeo and Juliet", "William Shakespeare", "1597-01-01"},
		{"978-1599869773", "The Art of War", "Sun Tzu", "1910-01-01"},
		{"978-0553213690", "The Three Musketeers", "Alexandre Dumas", "1844-03-14"},
	}

	members := []seedMember{
		{"Alice Johnson", "alice@example.com", "regular", "alice-pass"},
		{"Bob Smith", "bob@example.com", "premium", "bob-pass"},
		{"Charlie Nguyen", "charlie@example.com", "student", "charlie-pass"},
	}

	fmt.Println("Seeding catalog...")
	successCount := 0
	errorCount := 0
	for _, b := range books {
		published, err := time.Parse("2006-01-02", b.published)
		if err != nil {
			fmt.Printf("ERROR - bad date for %s: %v\n", b.title, err)
			errorCount++
			continue
		}
		fmt.Printf("Adding: %s by %s... ", b.title, b.author)
		err = lib.AddBook(&library.Book{
			ISBN:        b.isbn,
			Title:       b.title,
			Author:      b.author,
			PublishedOn: published,
		})
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Println("SUCCESS")
		successCount++
	}

	fmt.Println("\nSeeding members...")
	for _, m := range members {
		tier, err := library.ParseTier(m.tier)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("Registering: %s (%s)... ", m.name, m.email)
		if _, err := lib.RegisterMember(m.name, m.email, tier, m.password); err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Println("SUCCESS")
		successCount++
	}

	fmt.Printf("\nSeed complete!\n")
	fmt.Printf("Records created: %d\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	all, err := lib.ListBooks()
	if err != nil {
		fmt.Printf("Error retrieving books: %v\n", err)
		return
	}
	fmt.Println("\nCatalog:")
	fmt.Printf("%-16s %-40s %-25s\n", "ISBN", "Title", "Author")
	fmt.Println(strings.Repeat("-", 85))
	for _, book := range all {
		fmt.Printf("%-16s %-40s %-25s\n", book.ISBN, truncateString(book.Title, 40), truncateString(book.Author, 25))
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
