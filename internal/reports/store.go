package reports

import (
	"context"
	"database/sql"
	"errors"
	"time"

	platformdb "libra-backend/internal/platform/db"
)

// OpenRecord is an unreturned loan joined with its display fields.
type OpenRecord struct {
	Borrower string
	Title    string
	DueDate  time.Time
}

type Totals struct {
	TotalBooks    int64
	TotalUsers    int64
	ActiveBorrows int64
	OverdueBooks  int64
}

type ReportStore interface {
	MostBorrowed(ctx context.Context, limit int) ([]BookCount, error)
	MostActiveBorrowers(ctx context.Context, limit int) ([]BorrowerCount, error)
	ListOpenRecords(ctx context.Context) ([]OpenRecord, error)
	CountTotals(ctx context.Context, today time.Time) (Totals, error)
	UpsertSnapshot(ctx context.Context, snap StatsSnapshot) error
	GetSnapshot(ctx context.Context, day time.Time) (*StatsSnapshot, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) ReportStore { return &Store{db: db} }

func (s *Store) MostBorrowed(ctx context.Context, limit int) ([]BookCount, error) {
	const q = `
SELECT b.title, COUNT(*) AS cnt
FROM borrow_records r
JOIN books b ON b.book_id = r.book_id
GROUP BY r.book_id, b.title
ORDER BY cnt DESC
LIMIT ?
`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookCount
	for rows.Next() {
		var r BookCount
		if err := rows.Scan(&r.Title, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) MostActiveBorrowers(ctx context.Context, limit int) ([]BorrowerCount, error) {
	const q = `
SELECT u.full_name, COUNT(*) AS cnt
FROM borrow_records r
JOIN users u ON u.user_id = r.user_id
GROUP BY r.user_id, u.full_name
ORDER BY cnt DESC
LIMIT ?
`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BorrowerCount
	for rows.Next() {
		var r BorrowerCount
		if err := rows.Scan(&r.Borrower, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListOpenRecords returns every unreturned loan; the overdue cut-off is
// applied by the service so the date arithmetic lives in one place.
func (s *Store) ListOpenRecords(ctx context.Context) ([]OpenRecord, error) {
	const q = `
SELECT u.full_name, b.title, r.due_date
FROM borrow_records r
JOIN users u ON u.user_id = r.user_id
JOIN books b ON b.book_id = r.book_id
WHERE r.return_date IS NULL
ORDER BY r.due_date ASC, r.record_id ASC
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenRecord
	for rows.Next() {
		var r OpenRecord
		if err := rows.Scan(&r.Borrower, &r.Title, &r.DueDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountTotals reads all four snapshot counters inside one read-only
// transaction for a consistent view.
func (s *Store) CountTotals(ctx context.Context, today time.Time) (Totals, error) {
	var t Totals
	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&t.TotalBooks); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&t.TotalUsers); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM borrow_records WHERE return_date IS NULL`).Scan(&t.ActiveBorrows); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM borrow_records WHERE return_date IS NULL AND due_date < ?`,
			today.Format(DateLayout)).Scan(&t.OverdueBooks)
	})
	return t, err
}

// UpsertSnapshot keeps at most one row per calendar day.
func (s *Store) UpsertSnapshot(ctx context.Context, snap StatsSnapshot) error {
	const q = `
INSERT INTO stats_history (snapshot_on, total_books, total_users, active_borrows, overdue_books, computed_at)
VALUES (?, ?, ?, ?, ?, NOW(6))
ON DUPLICATE KEY UPDATE
total_books    = VALUES(total_books),
total_users    = VALUES(total_users),
active_borrows = VALUES(active_borrows),
overdue_books  = VALUES(overdue_books),
computed_at    = VALUES(computed_at)`
	_, err := s.db.ExecContext(ctx, q,
		snap.SnapshotOn, snap.TotalBooks, snap.TotalUsers, snap.ActiveBorrows, snap.OverdueBooks)
	return err
}

// GetSnapshot returns (nil, nil) when no row exists for that day.
func (s *Store) GetSnapshot(ctx context.Context, day time.Time) (*StatsSnapshot, error) {
	const q = `
SELECT DATE_FORMAT(snapshot_on, '%Y-%m-%d'), total_books, total_users, active_borrows, overdue_books, computed_at
FROM stats_history
WHERE snapshot_on = ?
LIMIT 1
`
	var snap StatsSnapshot
	err := s.db.QueryRowContext(ctx, q, day.Format(DateLayout)).Scan(
		&snap.SnapshotOn, &snap.TotalBooks, &snap.TotalUsers, &snap.ActiveBorrows, &snap.OverdueBooks, &snap.ComputedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
