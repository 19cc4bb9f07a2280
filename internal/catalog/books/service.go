package books

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"libra-backend/internal/platform/apperr"
	platformdb "libra-backend/internal/platform/db"
)

const DefaultCopies = 1

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store BookStore
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func (s *Service) List(ctx context.Context) ([]BookResponse, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.ErrInternal("failed to list books")
	}
	out := make([]BookResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, b.toDTO())
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*BookResponse, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.ErrInternal("failed to get book")
	}
	if b == nil {
		return nil, apperr.ErrNotFound("book not found")
	}
	dto := b.toDTO()
	return &dto, nil
}

func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	if title == "" || author == "" {
		return nil, apperr.ErrInvalid("title and author are required")
	}

	copies := DefaultCopies
	if req.CopiesAvailable != nil {
		copies = *req.CopiesAvailable
	}
	if copies < 0 {
		return nil, apperr.ErrInvalid("copies_available must be >= 0")
	}

	b := &Book{
		Title:           title,
		Author:          author,
		CopiesAvailable: copies,
		CreatedAt:       s.clock.Now().UTC(),
	}
	if req.PublishedYear != nil {
		b.PublishedYear.Int64 = int64(*req.PublishedYear)
		b.PublishedYear.Valid = true
	}
	if req.ISBN != nil && *req.ISBN != "" {
		b.ISBN.String = *req.ISBN
		b.ISBN.Valid = true
	}

	if err := s.store.Create(ctx, b); err != nil {
		if platformdb.IsDuplicateKey(err) {
			return nil, apperr.ErrConflict("book already exists")
		}
		return nil, apperr.ErrInternal("failed to create book")
	}
	dto := b.toDTO()
	return &dto, nil
}

// BulkCreate applies inserts independently, best-effort: a failing item
// never rolls back the ones before it.
func (s *Service) BulkCreate(ctx context.Context, reqs []CreateBookRequest) []BulkItemResult {
	out := make([]BulkItemResult, 0, len(reqs))
	for i, req := range reqs {
		dto, err := s.Create(ctx, req)
		if err != nil {
			logrus.WithError(err).WithField("index", i).Warn("bulk book insert failed")
			var api *apperr.APIError
			if !errors.As(err, &api) {
				api = apperr.ErrInternal("failed to create book")
			}
			out = append(out, BulkItemResult{Index: i, Error: api})
			continue
		}
		out = append(out, BulkItemResult{Index: i, Book: dto})
	}
	return out
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBookRequest) (*BookResponse, error) {
	if req.Title == nil && req.Author == nil && req.PublishedYear == nil && req.ISBN == nil && req.CopiesAvailable == nil {
		return nil, apperr.ErrInvalid("no fields to update")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperr.ErrInvalid("title must not be empty")
	}
	if req.Author != nil && strings.TrimSpace(*req.Author) == "" {
		return nil, apperr.ErrInvalid("author must not be empty")
	}
	if req.CopiesAvailable != nil && *req.CopiesAvailable < 0 {
		return nil, apperr.ErrInvalid("copies_available must be >= 0")
	}

	n, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, apperr.ErrInternal("failed to update book")
	}
	if n == 0 {
		// 0 rows can also mean the values were already identical.
		b, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, apperr.ErrInternal("failed to get book")
		}
		if b == nil {
			return nil, apperr.ErrNotFound("book not found")
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		if platformdb.IsFKViolation(err) {
			return apperr.ErrConflict("book has borrow records")
		}
		return apperr.ErrInternal("failed to delete book")
	}
	if n == 0 {
		return apperr.ErrNotFound("book not found")
	}
	return nil
}
