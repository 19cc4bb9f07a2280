package books

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type BookStore interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, id int64, req UpdateBookRequest) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) BookStore { return &Store{db: db} }

func (s *Store) List(ctx context.Context) ([]Book, error) {
	const q = `
SELECT book_id, title, author, published_year, isbn, copies_available, created_at
FROM books
ORDER BY book_id ASC
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.PublishedYear, &b.ISBN, &b.CopiesAvailable, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID returns (nil, nil) when the book does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Book, error) {
	const q = `
SELECT book_id, title, author, published_year, isbn, copies_available, created_at
FROM books
WHERE book_id = ?
LIMIT 1
`
	var b Book
	err := s.db.QueryRowContext(ctx, q, id).Scan(&b.BookID, &b.Title, &b.Author, &b.PublishedYear, &b.ISBN, &b.CopiesAvailable, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) Create(ctx context.Context, b *Book) error {
	const q = `
INSERT INTO books (title, author, published_year, isbn, copies_available, created_at)
VALUES (?, ?, ?, ?, ?, NOW(6))
`
	res, err := s.db.ExecContext(ctx, q, b.Title, b.Author, b.PublishedYear, b.ISBN, b.CopiesAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.BookID = id
	return nil
}

func (s *Store) Update(ctx context.Context, id int64, req UpdateBookRequest) (int64, error) {
	var sets []string
	var args []any
	if req.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *req.Author)
	}
	if req.PublishedYear != nil {
		sets = append(sets, "published_year = ?")
		args = append(args, *req.PublishedYear)
	}
	if req.ISBN != nil {
		sets = append(sets, "isbn = ?")
		args = append(args, *req.ISBN)
	}
	if req.CopiesAvailable != nil {
		sets = append(sets, "copies_available = ?")
		args = append(args, *req.CopiesAvailable)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, id)
	q := `UPDATE books SET ` + strings.Join(sets, ", ") + ` WHERE book_id = ?`
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM books WHERE book_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
