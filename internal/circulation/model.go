package circulation

import (
	"database/sql"
	"time"
)

const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"

	DateLayout = "2006-01-02"
)

// BorrowRecord mirrors one borrow_records row. status duplicates
// "return_date is set" and the two are always written together.
type BorrowRecord struct {
	RecordID   int64
	RecordULID string
	UserID     int64
	BookID     int64
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate sql.NullTime
	Status     string
	CreatedAt  time.Time
}

// recordRow is a record joined with its borrower name and book title.
type recordRow struct {
	BorrowRecord
	BorrowerName string
	BookTitle    string
}

func (r BorrowRecord) toDTO() RecordResponse {
	resp := RecordResponse{
		RecordID:   r.RecordID,
		RecordULID: r.RecordULID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		BorrowDate: r.BorrowDate.Format(DateLayout),
		DueDate:    r.DueDate.Format(DateLayout),
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
	if r.ReturnDate.Valid {
		v := r.ReturnDate.Time.Format(DateLayout)
		resp.ReturnDate = &v
	}
	return resp
}

func (r recordRow) toDTO() RecordResponse {
	resp := r.BorrowRecord.toDTO()
	resp.Borrower = r.BorrowerName
	resp.BookTitle = r.BookTitle
	return resp
}
