package reports

import "time"

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// Flat fine: one currency unit per full overdue day, uncapped.
	FinePerDay = 1

	DateLayout = "2006-01-02"
)

type BookCount struct {
	Title string `json:"title"`
	Count int64  `json:"count"`
}

type BorrowerCount struct {
	Borrower string `json:"borrower"`
	Count    int64  `json:"count"`
}

type OverdueRow struct {
	Borrower    string `json:"borrower"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	OverdueDays int64  `json:"overdue_days"`
	Fine        int64  `json:"fine"`
}

// StatsSnapshot is the daily aggregate row, at most one per calendar day.
type StatsSnapshot struct {
	SnapshotOn    string    `json:"snapshot_on"`
	TotalBooks    int64     `json:"total_books"`
	TotalUsers    int64     `json:"total_users"`
	ActiveBorrows int64     `json:"active_borrows"`
	OverdueBooks  int64     `json:"overdue_books"`
	ComputedAt    time.Time `json:"computed_at"`
}
