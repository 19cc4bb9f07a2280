package circulation

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"libra-backend/internal/platform/apperr"
	platformdb "libra-backend/internal/platform/db"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Service struct {
	store RecordStore
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// Create records a borrow. It does not check copies_available and does
// not decrement it; referential integrity is the store's foreign keys.
func (s *Service) Create(ctx context.Context, req CreateRecordRequest) (*RecordResponse, error) {
	if req.UserID <= 0 {
		return nil, apperr.ErrInvalid("user_id must be > 0")
	}
	if req.BookID <= 0 {
		return nil, apperr.ErrInvalid("book_id must be > 0")
	}
	due, err := time.ParseInLocation(DateLayout, req.DueDate, time.UTC)
	if err != nil {
		return nil, apperr.ErrInvalid("invalid due_date format, expected YYYY-MM-DD")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, apperr.ErrInternal("failed to generate id")
	}

	r := &BorrowRecord{
		RecordULID: idStr,
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowDate: dateOnly(s.clock.Now()),
		DueDate:    due,
		Status:     StatusBorrowed,
		CreatedAt:  s.clock.Now().UTC(),
	}

	if err := s.store.Insert(ctx, r); err != nil {
		if platformdb.IsFKViolation(err) {
			return nil, apperr.ErrNotFound("user or book not found")
		}
		return nil, apperr.ErrInternal("failed to create borrow record")
	}

	resp := r.toDTO()
	return &resp, nil
}

// MarkReturned sets return_date to today and status to returned. The
// transition is not guarded: returning an already-returned record
// refreshes return_date to today again, matching the observed behavior
// of the system this replaces.
func (s *Service) MarkReturned(ctx context.Context, recordID int64) (*RecordResponse, error) {
	if recordID <= 0 {
		return nil, apperr.ErrInvalid("record id must be > 0")
	}

	today := dateOnly(s.clock.Now())
	// RowsAffected is 0 both for a missing record and for an UPDATE whose
	// values were already identical (returned again on the same day), so
	// the follow-up fetch is what decides existence.
	if _, err := s.store.MarkReturned(ctx, recordID, today); err != nil {
		return nil, apperr.ErrInternal("failed to mark returned")
	}

	r, err := s.store.GetByID(ctx, recordID)
	if err != nil {
		return nil, apperr.ErrInternal("failed to get borrow record")
	}
	if r == nil {
		return nil, apperr.ErrNotFound("borrow record not found")
	}
	resp := r.toDTO()
	return &resp, nil
}

// Delete is an administrative correction; an absent id is a silent no-op.
func (s *Service) Delete(ctx context.Context, recordID int64) error {
	if recordID <= 0 {
		return apperr.ErrInvalid("record id must be > 0")
	}
	if err := s.store.Delete(ctx, recordID); err != nil {
		return apperr.ErrInternal("failed to delete borrow record")
	}
	return nil
}

// List returns every record joined with borrower name and book title,
// in insertion order.
func (s *Service) List(ctx context.Context) ([]RecordResponse, error) {
	rows, err := s.store.ListJoined(ctx)
	if err != nil {
		return nil, apperr.ErrInternal("failed to list borrow records")
	}
	out := make([]RecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDTO())
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
