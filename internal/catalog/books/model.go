package books

import (
	"database/sql"
	"time"
)

// Book mirrors one books row.
type Book struct {
	BookID          int64
	Title           string
	Author          string
	PublishedYear   sql.NullInt64
	ISBN            sql.NullString
	CopiesAvailable int
	CreatedAt       time.Time
}

func (b Book) toDTO() BookResponse {
	resp := BookResponse{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		CopiesAvailable: b.CopiesAvailable,
		CreatedAt:       b.CreatedAt,
	}
	if b.PublishedYear.Valid {
		v := int(b.PublishedYear.Int64)
		resp.PublishedYear = &v
	}
	if b.ISBN.Valid {
		v := b.ISBN.String
		resp.ISBN = &v
	}
	return resp
}
