package books

import (
	"time"

	"libra-backend/internal/platform/apperr"
)

type BookResponse struct {
	BookID          int64     `json:"book_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublishedYear   *int      `json:"published_year,omitempty"`
	ISBN            *string   `json:"isbn,omitempty"`
	CopiesAvailable int       `json:"copies_available"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required"`
	Author          string  `json:"author" binding:"required"`
	PublishedYear   *int    `json:"published_year,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	CopiesAvailable *int    `json:"copies_available,omitempty"`
}

type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	PublishedYear   *int    `json:"published_year,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	CopiesAvailable *int    `json:"copies_available,omitempty"`
}

type BulkCreateRequest struct {
	Books []CreateBookRequest `json:"books" binding:"required"`
}

// BulkItemResult reports one item of a best-effort bulk create. Exactly
// one of Book and Error is set.
type BulkItemResult struct {
	Index int              `json:"index"`
	Book  *BookResponse    `json:"book,omitempty"`
	Error *apperr.APIError `json:"error,omitempty"`
}
