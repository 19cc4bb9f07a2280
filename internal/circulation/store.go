package circulation

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type RecordStore interface {
	Insert(ctx context.Context, r *BorrowRecord) error
	GetByID(ctx context.Context, id int64) (*BorrowRecord, error)
	MarkReturned(ctx context.Context, id int64, returnedOn time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
	ListJoined(ctx context.Context) ([]recordRow, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) RecordStore { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, r *BorrowRecord) error {
	const q = `
INSERT INTO borrow_records
(record_ulid, user_id, book_id, borrow_date, due_date, return_date, status, created_at)
VALUES (?, ?, ?, ?, ?, NULL, ?, NOW(6))
`
	res, err := s.db.ExecContext(ctx, q,
		r.RecordULID,
		r.UserID,
		r.BookID,
		r.BorrowDate.Format(DateLayout),
		r.DueDate.Format(DateLayout),
		r.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.RecordID = id
	return nil
}

// GetByID returns (nil, nil) when the record does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*BorrowRecord, error) {
	const q = `
SELECT record_id, record_ulid, user_id, book_id, borrow_date, due_date, return_date, status, created_at
FROM borrow_records
WHERE record_id = ?
LIMIT 1
`
	var r BorrowRecord
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.RecordID, &r.RecordULID, &r.UserID, &r.BookID,
		&r.BorrowDate, &r.DueDate, &r.ReturnDate, &r.Status, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// MarkReturned writes return_date and status in one statement so the
// stored pair can never diverge.
func (s *Store) MarkReturned(ctx context.Context, id int64, returnedOn time.Time) (int64, error) {
	const q = `
UPDATE borrow_records
SET return_date = ?, status = ?
WHERE record_id = ?
`
	res, err := s.db.ExecContext(ctx, q, returnedOn.Format(DateLayout), StatusReturned, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete is unconditional; deleting an absent record is a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM borrow_records WHERE record_id = ?`
	_, err := s.db.ExecContext(ctx, q, id)
	return err
}

func (s *Store) ListJoined(ctx context.Context) ([]recordRow, error) {
	const q = `
SELECT
	r.record_id, r.record_ulid, r.user_id, r.book_id,
	r.borrow_date, r.due_date, r.return_date, r.status, r.created_at,
	u.full_name, b.title
FROM borrow_records r
JOIN users u ON u.user_id = r.user_id
JOIN books b ON b.book_id = r.book_id
ORDER BY r.record_id ASC
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []recordRow
	for rows.Next() {
		var r recordRow
		if err := rows.Scan(
			&r.RecordID, &r.RecordULID, &r.UserID, &r.BookID,
			&r.BorrowDate, &r.DueDate, &r.ReturnDate, &r.Status, &r.CreatedAt,
			&r.BorrowerName, &r.BookTitle,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
