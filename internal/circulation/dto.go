package circulation

import "time"

type CreateRecordRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	BookID  int64  `json:"book_id" binding:"required"`
	DueDate string `json:"due_date" binding:"required"` // "2006-01-02"
}

type RecordResponse struct {
	RecordID   int64     `json:"record_id"`
	RecordULID string    `json:"record_ulid"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	Borrower   string    `json:"borrower,omitempty"`
	BookTitle  string    `json:"book_title,omitempty"`
	BorrowDate string    `json:"borrow_date"`
	DueDate    string    `json:"due_date"`
	ReturnDate *string   `json:"return_date,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
