package main

import (
	"fmt"
	"os"
	"strings"

	"library-circulation/library"
)

type seedBook struct {
	title  string
	author string
	isbn   string
	copies int
}

func main() {
	dbFile := os.Getenv("LIBRARY_DB")
	if dbFile == "" {
		dbFile = "library.db"
	}

	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{dbFile, dbFile + "-shm", dbFile + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Database cleanup complete.")

	db, err := library.NewDatabase(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	svc := library.NewService(db)

	catalog := []seedBook{
		{"1984", "George Orwell", "9780451524935", 4},
		{"Animal Farm", "George Orwell", "9780452284241", 3},
		{"The Diary of a Young Girl", "Anne Frank", "9780553296983", 2},
		{"The Art of War", "Sun Tzu", "9781590302255", 2},
		{"The Fellowship of the Ring", "J.R.R. Tolkien", "9780547928210", 3},
		{"The Two Towers", "J.R.R. Tolkien", "9780547928203", 3},
		{"The Return of the King", "J.R.R. Tolkien", "9780547928197", 3},
		{"Harry Potter and the Philosopher's Stone", "J.K. Rowling", "9780747532699", 5},
		{"Harry Potter and the Chamber of Secrets", "J.K. Rowling", "9780747538493", 5},
		{"Harry Potter and the Prisoner of Azkaban", "J.K. Rowling", "9780747542155", 4},
		{"Romeo and Juliet", "William Shakespeare", "9780743477116", 2},
		{"The Three Musketeers", "Alexandre Dumas", "9780140367478", 2},
	}

	fmt.Printf("Seeding %d books...\n", len(catalog))

	successCount := 0
	errorCount := 0

	for _, b := range catalog {
		fmt.Printf("Adding: %s by %s... ", b.title, b.author)
		msg, err := svc.AddBookToCatalog(b.title, b.author, b.isbn, b.copies)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS - %s\n", msg)
		successCount++
	}

	fmt.Printf("\nSeed complete!\n")
	fmt.Printf("Successfully added: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nCatalog:")
		books, err := svc.ListBooks()
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
			return
		}
		fmt.Printf("%-3s %-45s %-25s %-15s %s\n", "ID", "Title", "Author", "ISBN", "Copies")
		fmt.Println(strings.Repeat("-", 100))
		for _, book := range books {
			fmt.Printf("%-3d %-45s %-25s %-15s %d\n",
				book.ID, truncateString(book.Title, 45), truncateString(book.Author, 25),
				book.ISBN, book.TotalCopies)
		}
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
