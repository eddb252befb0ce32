package library

import (
	"path/filepath"
	"testing"
	"time"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndFindBook(t *testing.T) {
	db := tempDB(t)

	id, err := db.CreateBook("The Art of War", "Sun Tzu", "9781590302255", 3)
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	book, err := db.FindBookByID(id)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if book == nil {
		t.Fatalf("book not found")
	}
	if book.TotalCopies != 3 || book.AvailableCopies != 3 {
		t.Fatalf("want 3/3 copies, got %d/%d", book.AvailableCopies, book.TotalCopies)
	}

	byISBN, err := db.FindBookByISBN("9781590302255")
	if err != nil {
		t.Fatalf("find by isbn: %v", err)
	}
	if byISBN == nil || byISBN.ID != id {
		t.Fatalf("isbn lookup mismatch")
	}
}

func TestFindBookMissingReturnsNil(t *testing.T) {
	db := tempDB(t)

	book, err := db.FindBookByID(42)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if book != nil {
		t.Fatalf("expected nil for unknown id")
	}

	book, err = db.FindBookByISBN("9999999999999")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if book != nil {
		t.Fatalf("expected nil for unknown isbn")
	}
}

func TestDuplicateISBNRejectedByConstraint(t *testing.T) {
	db := tempDB(t)

	if _, err := db.CreateBook("First", "A", "9780451524935", 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.CreateBook("Second", "B", "9780451524935", 1); err == nil {
		t.Fatalf("expected unique constraint violation")
	}
}

func TestAdjustBookAvailability(t *testing.T) {
	db := tempDB(t)
	id, _ := db.CreateBook("Book", "Author", "9780000000001", 2)

	if err := db.AdjustBookAvailability(id, -1); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	book, _ := db.FindBookByID(id)
	if book.AvailableCopies != 1 {
		t.Fatalf("want 1 available, got %d", book.AvailableCopies)
	}

	if err := db.AdjustBookAvailability(id, 1); err != nil {
		t.Fatalf("adjust back: %v", err)
	}
	book, _ = db.FindBookByID(id)
	if book.AvailableCopies != 2 {
		t.Fatalf("want 2 available, got %d", book.AvailableCopies)
	}

	if err := db.AdjustBookAvailability(9999, -1); err == nil {
		t.Fatalf("expected error for unknown book")
	}
}

func TestSearchBooksByField(t *testing.T) {
	db := tempDB(t)
	db.CreateBook("The Go Programming Language", "Alan Donovan", "9780134190440", 1)
	db.CreateBook("Go in Action", "William Kennedy", "9781617291784", 1)
	db.CreateBook("Python Crash Course", "Eric Matthes", "9781593279288", 1)

	results, err := db.SearchBooks("go", "title")
	if err != nil {
		t.Fatalf("search title: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 title matches, got %d", len(results))
	}

	results, _ = db.SearchBooks("KENNEDY", "author")
	if len(results) != 1 {
		t.Fatalf("author search should be case-insensitive, got %d", len(results))
	}

	results, _ = db.SearchBooks("9781593279288", "isbn")
	if len(results) != 1 || results[0].Title != "Python Crash Course" {
		t.Fatalf("isbn search should match exactly")
	}

	// Substring ISBN must not match: exact only.
	results, _ = db.SearchBooks("1593279288", "isbn")
	if len(results) != 0 {
		t.Fatalf("partial isbn should not match")
	}
}

func TestBorrowRecordLifecycle(t *testing.T) {
	db := tempDB(t)
	bookID, _ := db.CreateBook("1984", "George Orwell", "9780451524935", 2)

	borrowDate := time.Now().AddDate(0, 0, -3)
	dueDate := borrowDate.AddDate(0, 0, 14)

	if _, err := db.CreateBorrowRecord("123456", bookID, borrowDate, dueDate); err != nil {
		t.Fatalf("create record: %v", err)
	}

	n, err := db.CountActiveBorrows("123456")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 active borrow, got %d", n)
	}

	rec, err := db.FindActiveBorrowRecord("123456", bookID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if rec == nil || rec.Returned() {
		t.Fatalf("expected an open record")
	}
	if rec.Title != "1984" {
		t.Fatalf("expected joined title, got %q", rec.Title)
	}

	if err := db.SetReturnDate("123456", bookID, time.Now()); err != nil {
		t.Fatalf("set return date: %v", err)
	}

	rec, _ = db.FindActiveBorrowRecord("123456", bookID)
	if rec != nil {
		t.Fatalf("record should be closed")
	}

	history, err := db.ListReturnedHistory("123456")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || !history[0].Returned() {
		t.Fatalf("want 1 returned record")
	}
}

func TestSetReturnDateWithoutActiveRecord(t *testing.T) {
	db := tempDB(t)
	bookID, _ := db.CreateBook("Book", "Author", "9780000000002", 1)

	if err := db.SetReturnDate("123456", bookID, time.Now()); err == nil {
		t.Fatalf("expected error when no open record exists")
	}
}

func TestDuplicateActiveRecordsMostRecentWins(t *testing.T) {
	db := tempDB(t)
	bookID, _ := db.CreateBook("Book", "Author", "9780000000003", 5)

	older := time.Now().AddDate(0, 0, -20)
	newer := time.Now().AddDate(0, 0, -2)
	db.CreateBorrowRecord("123456", bookID, older, older.AddDate(0, 0, 14))
	db.CreateBorrowRecord("123456", bookID, newer, newer.AddDate(0, 0, 14))

	rec, err := db.FindActiveBorrowRecord("123456", bookID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.BorrowDate.Before(newer.Add(-time.Second)) {
		t.Fatalf("expected the most recent record, got one from %v", rec.BorrowDate)
	}

	// Closing the pair must close the same record the lookup returned.
	if err := db.SetReturnDate("123456", bookID, time.Now()); err != nil {
		t.Fatalf("set return date: %v", err)
	}
	remaining, _ := db.FindActiveBorrowRecord("123456", bookID)
	if remaining == nil {
		t.Fatalf("older duplicate should still be open")
	}
	if !remaining.BorrowDate.Before(newer) {
		t.Fatalf("expected the older record to remain open")
	}
}

func TestListActiveBorrowsOrdering(t *testing.T) {
	db := tempDB(t)
	b1, _ := db.CreateBook("First", "A", "9780000000004", 1)
	b2, _ := db.CreateBook("Second", "B", "9780000000005", 1)

	now := time.Now()
	db.CreateBorrowRecord("654321", b2, now.AddDate(0, 0, -1), now.AddDate(0, 0, 13))
	db.CreateBorrowRecord("654321", b1, now.AddDate(0, 0, -5), now.AddDate(0, 0, 9))

	records, err := db.ListActiveBorrows("654321")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}
	if records[0].BookID != b1 {
		t.Fatalf("oldest borrow should come first")
	}
}
