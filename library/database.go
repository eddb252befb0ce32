package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Database is the SQLite implementation of Store.
type Database struct {
	db *sql.DB

	addBookStmt      *sql.Stmt
	addBorrowStmt    *sql.Stmt
	adjustCopiesStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	for _, stmt := range []*sql.Stmt{d.addBookStmt, d.addBorrowStmt, d.adjustCopiesStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            isbn TEXT NOT NULL UNIQUE,
            total_copies INTEGER NOT NULL,
            available_copies INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patron_id TEXT NOT NULL,
            book_id INTEGER NOT NULL REFERENCES books(id),
            borrow_date DATETIME NOT NULL,
            due_date DATETIME NOT NULL,
            return_date DATETIME
        );`,
		`CREATE INDEX IF NOT EXISTS idx_borrow_patron ON borrow_records(patron_id, return_date);`,
		`CREATE INDEX IF NOT EXISTS idx_borrow_book ON borrow_records(book_id);`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Prepare(
		`INSERT INTO books(title,author,isbn,total_copies,available_copies) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addBorrowStmt, err = d.db.Prepare(
		`INSERT INTO borrow_records(patron_id,book_id,borrow_date,due_date) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	if d.adjustCopiesStmt, err = d.db.Prepare(
		`UPDATE books SET available_copies = available_copies + ? WHERE id=?`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

const bookColumns = `id,title,author,isbn,total_copies,available_copies`

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBookByID fetches a single book; (nil, nil) when the id is unknown.
func (d *Database) FindBookByID(id int64) (*Book, error) {
	row := d.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id=?`, id)
	b, err := scanBook(row)
	if err != nil {
		return nil, errors.Wrap(err, "query book by id")
	}
	return b, nil
}

// FindBookByISBN fetches a single book by ISBN; (nil, nil) when absent.
func (d *Database) FindBookByISBN(isbn string) (*Book, error) {
	row := d.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE isbn=?`, isbn)
	b, err := scanBook(row)
	if err != nil {
		return nil, errors.Wrap(err, "query book by isbn")
	}
	return b, nil
}

// CreateBook inserts a catalog entry with every copy on the shelf.
func (d *Database) CreateBook(title, author, isbn string, totalCopies int) (int64, error) {
	res, err := d.addBookStmt.Exec(title, author, isbn, totalCopies, totalCopies)
	if err != nil {
		return 0, errors.Wrap(err, "insert book")
	}
	return res.LastInsertId()
}

// AdjustBookAvailability shifts available_copies by delta (−1 on borrow,
// +1 on return). The caller is responsible for availability checks; this is a
// plain counter update.
func (d *Database) AdjustBookAvailability(id int64, delta int) error {
	res, err := d.adjustCopiesStmt.Exec(delta, id)
	if err != nil {
		return errors.Wrap(err, "update availability")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("book %d does not exist", id)
	}
	return nil
}

// ListAllBooks returns the whole catalog ordered by id.
func (d *Database) ListAllBooks() ([]*Book, error) {
	return d.queryBooks(`SELECT ` + bookColumns + ` FROM books ORDER BY id`)
}

// SearchBooks matches title/author as case-insensitive substrings and isbn
// exactly. Unknown fields fall back to title so a bad caller still gets a
// sensible result instead of an error.
func (d *Database) SearchBooks(query, field string) ([]*Book, error) {
	switch field {
	case "isbn":
		return d.queryBooks(`SELECT `+bookColumns+` FROM books WHERE isbn=? ORDER BY id`, query)
	case "author":
		return d.queryBooks(
			`SELECT `+bookColumns+` FROM books WHERE LOWER(author) LIKE '%'||LOWER(?)||'%' ORDER BY id`, query)
	default:
		return d.queryBooks(
			`SELECT `+bookColumns+` FROM books WHERE LOWER(title) LIKE '%'||LOWER(?)||'%' ORDER BY id`, query)
	}
}

func (d *Database) queryBooks(q string, args ...any) ([]*Book, error) {
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query books")
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.TotalCopies, &b.AvailableCopies); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// ---------------------------------------------------------------------------
// Borrow records
// ---------------------------------------------------------------------------

const borrowColumns = `r.id, r.patron_id, r.book_id, b.title, b.author, r.borrow_date, r.due_date, r.return_date`

// CreateBorrowRecord opens a loan. Dates are supplied by the caller so the
// service owns the loan-period policy.
func (d *Database) CreateBorrowRecord(patronID string, bookID int64, borrowDate, dueDate time.Time) (int64, error) {
	res, err := d.addBorrowStmt.Exec(patronID, bookID, borrowDate, dueDate)
	if err != nil {
		return 0, errors.Wrap(err, "insert borrow record")
	}
	return res.LastInsertId()
}

// FindActiveBorrowRecord returns the patron's open loan for the book, or
// (nil, nil) when there is none. Should the data ever hold more than one open
// loan for the pair, the most recently opened one wins.
func (d *Database) FindActiveBorrowRecord(patronID string, bookID int64) (*BorrowRecord, error) {
	row := d.db.QueryRow(`
        SELECT `+borrowColumns+`
        FROM borrow_records r JOIN books b ON b.id = r.book_id
        WHERE r.patron_id=? AND r.book_id=? AND r.return_date IS NULL
        ORDER BY r.borrow_date DESC, r.id DESC LIMIT 1`, patronID, bookID)

	rec, err := scanBorrowRecord(row)
	if err != nil {
		return nil, errors.Wrap(err, "query active borrow record")
	}
	return rec, nil
}

// SetReturnDate closes the open loan for (patron, book). The subquery targets
// the same row FindActiveBorrowRecord would pick, so duplicates resolve
// consistently.
func (d *Database) SetReturnDate(patronID string, bookID int64, when time.Time) error {
	res, err := d.db.Exec(`
        UPDATE borrow_records SET return_date=?
        WHERE id = (
            SELECT id FROM borrow_records
            WHERE patron_id=? AND book_id=? AND return_date IS NULL
            ORDER BY borrow_date DESC, id DESC LIMIT 1
        )`, when, patronID, bookID)
	if err != nil {
		return errors.Wrap(err, "update return date")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("no active borrow record for patron %s on book %d", patronID, bookID)
	}
	return nil
}

// CountActiveBorrows returns how many loans the patron currently has open.
func (d *Database) CountActiveBorrows(patronID string) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM borrow_records WHERE patron_id=? AND return_date IS NULL`, patronID).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "count active borrows")
	}
	return n, nil
}

// ListActiveBorrows returns the patron's open loans, oldest first.
func (d *Database) ListActiveBorrows(patronID string) ([]*BorrowRecord, error) {
	return d.queryBorrowRecords(`
        SELECT `+borrowColumns+`
        FROM borrow_records r JOIN books b ON b.id = r.book_id
        WHERE r.patron_id=? AND r.return_date IS NULL
        ORDER BY r.borrow_date, r.id`, patronID)
}

// ListReturnedHistory returns the patron's closed loans, most recent first.
func (d *Database) ListReturnedHistory(patronID string) ([]*BorrowRecord, error) {
	return d.queryBorrowRecords(`
        SELECT `+borrowColumns+`
        FROM borrow_records r JOIN books b ON b.id = r.book_id
        WHERE r.patron_id=? AND r.return_date IS NOT NULL
        ORDER BY r.return_date DESC, r.id DESC`, patronID)
}

func scanBorrowRecord(row interface{ Scan(...any) error }) (*BorrowRecord, error) {
	var (
		rec BorrowRecord
		ret sql.NullTime
	)
	err := row.Scan(&rec.ID, &rec.PatronID, &rec.BookID, &rec.Title, &rec.Author,
		&rec.BorrowDate, &rec.DueDate, &ret)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if ret.Valid {
		t := ret.Time
		rec.ReturnDate = &t
	}
	return &rec, nil
}

func (d *Database) queryBorrowRecords(q string, args ...any) ([]*BorrowRecord, error) {
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query borrow records")
	}
	defer rows.Close()

	records := []*BorrowRecord{}
	for rows.Next() {
		rec, err := scanBorrowRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
