package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalid("x"), http.StatusBadRequest},
		{ErrNotFound("x"), http.StatusNotFound},
		{ErrConflict("x"), http.StatusConflict},
		{ErrUnauthorized("x"), http.StatusUnauthorized},
		{ErrUnavailable("x"), http.StatusServiceUnavailable},
		{ErrInternal("x"), http.StatusInternalServerError},
		{errors.New("raw"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ToHTTPStatus(c.err))
	}
}

func TestToHTTPStatus_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrConflict("dup"))
	require.Equal(t, http.StatusConflict, ToHTTPStatus(err))
}

func TestFromErr_NeverLeaksRawErrors(t *testing.T) {
	body := FromErr(errors.New("dial tcp 127.0.0.1:3306: connection refused"))
	require.Equal(t, CodeInternal, body.Error.Code)
	require.Equal(t, "internal error", body.Error.Message)
}

func TestFromErr_KeepsAPIError(t *testing.T) {
	body := FromErr(ErrNotFound("book not found"))
	require.Equal(t, CodeNotFound, body.Error.Code)
	require.Equal(t, "book not found", body.Error.Message)
}
