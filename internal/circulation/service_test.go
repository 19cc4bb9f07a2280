package circulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"libra-backend/internal/platform/apperr"
)

type mockStore struct {
	insertFn       func(ctx context.Context, r *BorrowRecord) error
	getByIDFn      func(ctx context.Context, id int64) (*BorrowRecord, error)
	markReturnedFn func(ctx context.Context, id int64, returnedOn time.Time) (int64, error)
	deleteFn       func(ctx context.Context, id int64) error
	listJoinedFn   func(ctx context.Context) ([]recordRow, error)
}

var _ RecordStore = (*mockStore)(nil)

func (m *mockStore) Insert(ctx context.Context, r *BorrowRecord) error { return m.insertFn(ctx, r) }
func (m *mockStore) GetByID(ctx context.Context, id int64) (*BorrowRecord, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockStore) MarkReturned(ctx context.Context, id int64, returnedOn time.Time) (int64, error) {
	return m.markReturnedFn(ctx, id, returnedOn)
}
func (m *mockStore) Delete(ctx context.Context, id int64) error { return m.deleteFn(ctx, id) }
func (m *mockStore) ListJoined(ctx context.Context) ([]recordRow, error) {
	return m.listJoinedFn(ctx)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedIDGen struct{ id string }

func (g fixedIDGen) New() (string, error) { return g.id, nil }

var testNow = time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)

func newTestService(store RecordStore) *Service {
	return &Service{
		store: store,
		clock: fixedClock{t: testNow},
		id:    fixedIDGen{id: "01JG0000000000000000000000"},
	}
}

func apiCode(t *testing.T, err error) apperr.Code {
	t.Helper()
	var api *apperr.APIError
	require.True(t, errors.As(err, &api), "expected *apperr.APIError, got %v", err)
	return api.Code
}

func TestCreate_NewRecordIsBorrowed(t *testing.T) {
	var stored *BorrowRecord
	svc := newTestService(&mockStore{
		insertFn: func(ctx context.Context, r *BorrowRecord) error {
			r.RecordID = 10
			stored = r
			return nil
		},
	})

	out, err := svc.Create(context.Background(), CreateRecordRequest{
		UserID: 3, BookID: 7, DueDate: "2026-09-12",
	})
	require.NoError(t, err)
	require.Equal(t, int64(10), out.RecordID)
	require.Equal(t, "01JG0000000000000000000000", out.RecordULID)
	require.Equal(t, StatusBorrowed, out.Status)
	require.Equal(t, "2026-08-29", out.BorrowDate)
	require.Equal(t, "2026-09-12", out.DueDate)
	require.Nil(t, out.ReturnDate)
	require.False(t, stored.ReturnDate.Valid)
}

func TestCreate_BadDueDate(t *testing.T) {
	svc := newTestService(&mockStore{})
	for _, due := range []string{"", "12/09/2026", "2026-13-01", "next tuesday"} {
		_, err := svc.Create(context.Background(), CreateRecordRequest{UserID: 1, BookID: 1, DueDate: due})
		require.Error(t, err, "due_date %q", due)
		require.Equal(t, apperr.CodeInvalidArgument, apiCode(t, err))
	}
}

func TestCreate_UnknownUserOrBook(t *testing.T) {
	svc := newTestService(&mockStore{
		insertFn: func(ctx context.Context, r *BorrowRecord) error {
			return &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
		},
	})

	_, err := svc.Create(context.Background(), CreateRecordRequest{UserID: 999, BookID: 1, DueDate: "2026-09-12"})
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apiCode(t, err))
}

func TestMarkReturned_SetsTodayAndStatus(t *testing.T) {
	var returnedOn time.Time
	rec := BorrowRecord{
		RecordID: 10, RecordULID: "01JG0000000000000000000000",
		UserID: 3, BookID: 7,
		BorrowDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Status:     StatusReturned,
	}
	rec.ReturnDate.Time = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	rec.ReturnDate.Valid = true

	svc := newTestService(&mockStore{
		markReturnedFn: func(ctx context.Context, id int64, on time.Time) (int64, error) {
			returnedOn = on
			return 1, nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*BorrowRecord, error) { return &rec, nil },
	})

	out, err := svc.MarkReturned(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), returnedOn)
	require.Equal(t, StatusReturned, out.Status)
	require.Equal(t, "2026-08-29", *out.ReturnDate)
}

// Returning the same record again on the same day matches zero rows;
// the service must still answer 200 with the current state, not 404.
func TestMarkReturned_SameDayAgain(t *testing.T) {
	rec := BorrowRecord{RecordID: 10, Status: StatusReturned,
		BorrowDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	}
	rec.ReturnDate.Time = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	rec.ReturnDate.Valid = true

	var fetches int
	svc := newTestService(&mockStore{
		markReturnedFn: func(ctx context.Context, id int64, on time.Time) (int64, error) {
			return 0, nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*BorrowRecord, error) {
			fetches++
			return &rec, nil
		},
	})

	out, err := svc.MarkReturned(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, "2026-08-29", *out.ReturnDate)
	// One fetch settles both existence and the response body.
	require.Equal(t, 1, fetches)
}

func TestMarkReturned_Missing(t *testing.T) {
	svc := newTestService(&mockStore{
		markReturnedFn: func(ctx context.Context, id int64, on time.Time) (int64, error) {
			return 0, nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*BorrowRecord, error) { return nil, nil },
	})

	_, err := svc.MarkReturned(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apiCode(t, err))
}

func TestDelete_AbsentIsNoop(t *testing.T) {
	svc := newTestService(&mockStore{
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	})
	require.NoError(t, svc.Delete(context.Background(), 404))
}

func TestDelete_BadID(t *testing.T) {
	svc := newTestService(&mockStore{})
	err := svc.Delete(context.Background(), 0)
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidArgument, apiCode(t, err))
}

func TestList_JoinsBorrowerAndTitle(t *testing.T) {
	row := recordRow{
		BorrowRecord: BorrowRecord{
			RecordID: 1, RecordULID: "01JG0000000000000000000000",
			UserID: 3, BookID: 7, Status: StatusBorrowed,
			BorrowDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			DueDate:    time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		},
		BorrowerName: "Kenji Sato",
		BookTitle:    "The Go Programming Language",
	}
	svc := newTestService(&mockStore{
		listJoinedFn: func(ctx context.Context) ([]recordRow, error) { return []recordRow{row}, nil },
	})

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Kenji Sato", out[0].Borrower)
	require.Equal(t, "The Go Programming Language", out[0].BookTitle)
	require.Nil(t, out[0].ReturnDate)
}
