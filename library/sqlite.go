package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db *sqlx.DB

	saveBookStmt   *sqlx.NamedStmt
	saveMemberStmt *sqlx.NamedStmt
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath, applies
// schema migrations, and prepares common statements.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases prepared statements and closes the DB.
func (s *SQLiteStore) Close() error {
	if s.saveBookStmt != nil {
		s.saveBookStmt.Close()
	}
	if s.saveMemberStmt != nil {
		s.saveMemberStmt.Close()
	}
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sqlx.DB) error {
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
		`CREATE TABLE IF NOT EXISTS members (
            email TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            tier TEXT NOT NULL,
            books_checked_out INTEGER NOT NULL DEFAULT 0,
            password_hash TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS books (
            isbn TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            published_on DATETIME NOT NULL,
            status TEXT NOT NULL DEFAULT 'AVAILABLE',
            borrowed_by TEXT REFERENCES members(email),
            due_date DATETIME
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            isbn TEXT NOT NULL REFERENCES books(isbn),
            member_email TEXT NOT NULL REFERENCES members(email),
            checked_out_at DATETIME NOT NULL,
            due_date DATETIME NOT NULL,
            returned_at DATETIME,
            late_fee REAL NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS holds (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            isbn TEXT NOT NULL REFERENCES books(isbn),
            member_email TEXT NOT NULL REFERENCES members(email),
            placed_at DATETIME NOT NULL,
            fulfilled_at DATETIME
        );`,
		// One active hold per member per book.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_holds_active
            ON holds(isbn, member_email) WHERE fulfilled_at IS NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_books_status ON books(status);`,
		`CREATE INDEX IF NOT EXISTS idx_books_due_date ON books(due_date);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (s *SQLiteStore) prepareStatements() error {
	var err error
	if s.saveBookStmt, err = s.db.PrepareNamed(`
        INSERT INTO books(isbn,title,author,published_on,status,borrowed_by,due_date)
        VALUES(:isbn,:title,:author,:published_on,:status,:borrowed_by,:due_date)
        ON CONFLICT(isbn) DO UPDATE SET
            title=excluded.title,
            author=excluded.author,
            published_on=excluded.published_on,
            status=excluded.status,
            borrowed_by=excluded.borrowed_by,
            due_date=excluded.due_date;`); err != nil {
		return err
	}
	if s.saveMemberStmt, err = s.db.PrepareNamed(`
        INSERT INTO members(email,name,tier,books_checked_out,password_hash)
        VALUES(:email,:name,:tier,:books_checked_out,:password_hash)
        ON CONFLICT(email) DO UPDATE SET
            name=excluded.name,
            tier=excluded.tier,
            books_checked_out=excluded.books_checked_out,
            password_hash=excluded.password_hash;`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

const bookColumns = `isbn,title,author,published_on,status,borrowed_by,due_date`

func (s *SQLiteStore) FindBookByISBN(isbn string) (*Book, error) {
	var b Book
	err := s.db.Get(&b, `SELECT `+bookColumns+` FROM books WHERE isbn=?`, isbn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "book", Key: isbn}
	}
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &b, nil
}

// SaveBook upserts the full book record. Persistence is last-write-wins.
func (s *SQLiteStore) SaveBook(b *Book) error {
	if _, err := s.saveBookStmt.Exec(b); err != nil {
		return fmt.Errorf("save book: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListBooks() ([]*Book, error) {
	var books []*Book
	err := s.db.Select(&books, `SELECT `+bookColumns+` FROM books ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *SQLiteStore) FindBooksDueBefore(date time.Time) ([]*Book, error) {
	var books []*Book
	err := s.db.Select(&books, `
        SELECT `+bookColumns+` FROM books
        WHERE due_date IS NOT NULL AND due_date < ?
        ORDER BY due_date, rowid;`, date)
	if err != nil {
		return nil, fmt.Errorf("find overdue books: %w", err)
	}
	return books, nil
}

func (s *SQLiteStore) CountBooksByStatus(status BookStatus) (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM books WHERE status=?`, status); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// FindBooksByTitleContains matches the title substring case-insensitively
// (SQLite LIKE is case-insensitive for ASCII).
func (s *SQLiteStore) FindBooksByTitleContains(text string) ([]*Book, error) {
	var books []*Book
	err := s.db.Select(&books, `
        SELECT `+bookColumns+` FROM books
        WHERE title LIKE '%' || ? || '%'
        ORDER BY rowid;`, text)
	if err != nil {
		return nil, fmt.Errorf("search by title: %w", err)
	}
	return books, nil
}

func (s *SQLiteStore) FindBooksByAuthor(author string) ([]*Book, error) {
	var books []*Book
	err := s.db.Select(&books, `
        SELECT `+bookColumns+` FROM books WHERE author=? ORDER BY rowid;`, author)
	if err != nil {
		return nil, fmt.Errorf("search by author: %w", err)
	}
	return books, nil
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

const memberColumns = `email,name,tier,books_checked_out,password_hash`

func (s *SQLiteStore) FindMemberByEmail(email string) (*Member, error) {
	var m Member
	err := s.db.Get(&m, `SELECT `+memberColumns+` FROM members WHERE email=?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "member", Key: email}
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

func (s *SQLiteStore) SaveMember(m *Member) error {
	if _, err := s.saveMemberStmt.Exec(m); err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMembers() ([]*Member, error) {
	var members []*Member
	err := s.db.Select(&members, `SELECT `+memberColumns+` FROM members ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *SQLiteStore) CountMembers() (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM members`); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Holds
// ---------------------------------------------------------------------------

const holdColumns = `id,isbn,member_email,placed_at,fulfilled_at`

func (s *SQLiteStore) CreateHold(isbn, email string, placedAt time.Time) (*Hold, error) {
	res, err := s.db.Exec(`INSERT INTO holds(isbn,member_email,placed_at) VALUES(?,?,?)`,
		isbn, email, placedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("member %s already has a hold on %s", email, isbn)
		}
		return nil, fmt.Errorf("create hold: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Hold{ID: id, ISBN: isbn, MemberEmail: email, PlacedAt: placedAt}, nil
}

func (s *SQLiteStore) CancelHold(isbn, email string) error {
	res, err := s.db.Exec(`DELETE FROM holds WHERE isbn=? AND member_email=? AND fulfilled_at IS NULL`,
		isbn, email)
	if err != nil {
		return fmt.Errorf("cancel hold: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("no active hold for member %s on book %s", email, isbn)
	}
	return nil
}

func (s *SQLiteStore) ActiveHolds(isbn string) ([]*Hold, error) {
	var holds []*Hold
	err := s.db.Select(&holds, `
        SELECT `+holdColumns+` FROM holds
        WHERE isbn=? AND fulfilled_at IS NULL
        ORDER BY placed_at, id;`, isbn)
	if err != nil {
		return nil, fmt.Errorf("list holds: %w", err)
	}
	return holds, nil
}

// NextHold returns the earliest active hold for the book, or nil when the
// queue is empty.
func (s *SQLiteStore) NextHold(isbn string) (*Hold, error) {
	var h Hold
	err := s.db.Get(&h, `
        SELECT `+holdColumns+` FROM holds
        WHERE isbn=? AND fulfilled_at IS NULL
        ORDER BY placed_at, id LIMIT 1;`, isbn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next hold: %w", err)
	}
	return &h, nil
}

func (s *SQLiteStore) FulfillHold(id int64, at time.Time) error {
	if _, err := s.db.Exec(`UPDATE holds SET fulfilled_at=? WHERE id=?`, at, id); err != nil {
		return fmt.Errorf("fulfill hold: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Loan ledger
// ---------------------------------------------------------------------------

func (s *SQLiteStore) RecordLoan(l *Loan) (int64, error) {
	res, err := s.db.NamedExec(`
        INSERT INTO loans(isbn,member_email,checked_out_at,due_date,late_fee)
        VALUES(:isbn,:member_email,:checked_out_at,:due_date,:late_fee)`, l)
	if err != nil {
		return 0, fmt.Errorf("record loan: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) CloseLoan(isbn, email string, returnedAt time.Time, lateFee float64) error {
	_, err := s.db.Exec(`
        UPDATE loans SET returned_at=?, late_fee=?
        WHERE isbn=? AND member_email=? AND returned_at IS NULL`,
		returnedAt, lateFee, isbn, email)
	if err != nil {
		return fmt.Errorf("close loan: %w", err)
	}
	return nil
}
