package reports

import (
	"context"
	"database/sql"
	"time"

	"libra-backend/internal/platform/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store ReportStore
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func (s *Service) MostBorrowed(ctx context.Context, limit int) ([]BookCount, error) {
	out, err := s.store.MostBorrowed(ctx, clampLimit(limit))
	if err != nil {
		return nil, apperr.ErrInternal("failed to compute most-borrowed report")
	}
	return out, nil
}

func (s *Service) MostActiveBorrowers(ctx context.Context, limit int) ([]BorrowerCount, error) {
	out, err := s.store.MostActiveBorrowers(ctx, clampLimit(limit))
	if err != nil {
		return nil, apperr.ErrInternal("failed to compute active-borrowers report")
	}
	return out, nil
}

// Overdue lists unreturned loans whose due date is strictly before
// today. overdue_days is the whole-day difference; the fine is flat per
// day and computed on read, never stored.
func (s *Service) Overdue(ctx context.Context) ([]OverdueRow, error) {
	open, err := s.store.ListOpenRecords(ctx)
	if err != nil {
		return nil, apperr.ErrInternal("failed to list open records")
	}

	today := dateOnly(s.clock.Now())
	out := make([]OverdueRow, 0, len(open))
	for _, r := range open {
		due := dateOnly(r.DueDate)
		if !due.Before(today) {
			continue
		}
		days := int64(today.Sub(due).Hours() / 24)
		out = append(out, OverdueRow{
			Borrower:    r.Borrower,
			Title:       r.Title,
			DueDate:     due.Format(DateLayout),
			OverdueDays: days,
			Fine:        days * FinePerDay,
		})
	}
	return out, nil
}

// SnapshotToday recomputes the four counters and upserts today's
// stats_history row.
func (s *Service) SnapshotToday(ctx context.Context) (*StatsSnapshot, error) {
	today := dateOnly(s.clock.Now())
	totals, err := s.store.CountTotals(ctx, today)
	if err != nil {
		return nil, apperr.ErrInternal("failed to compute stats totals")
	}

	snap := StatsSnapshot{
		SnapshotOn:    today.Format(DateLayout),
		TotalBooks:    totals.TotalBooks,
		TotalUsers:    totals.TotalUsers,
		ActiveBorrows: totals.ActiveBorrows,
		OverdueBooks:  totals.OverdueBooks,
		ComputedAt:    s.clock.Now().UTC(),
	}
	if err := s.store.UpsertSnapshot(ctx, snap); err != nil {
		return nil, apperr.ErrInternal("failed to store stats snapshot")
	}
	return &snap, nil
}

// PreviousDay returns yesterday's snapshot, or an all-zero row when no
// snapshot was taken that day.
func (s *Service) PreviousDay(ctx context.Context) (*StatsSnapshot, error) {
	yesterday := dateOnly(s.clock.Now()).AddDate(0, 0, -1)
	snap, err := s.store.GetSnapshot(ctx, yesterday)
	if err != nil {
		return nil, apperr.ErrInternal("failed to get stats snapshot")
	}
	if snap == nil {
		return &StatsSnapshot{SnapshotOn: yesterday.Format(DateLayout)}, nil
	}
	return snap, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
