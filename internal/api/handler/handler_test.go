package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/qa-forum/internal/service"
)

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		service.ErrSelfLike:                         http.StatusBadRequest,
		service.ErrInvalidTarget:                    http.StatusBadRequest,
		service.ErrForbidden:                        http.StatusForbidden,
		service.ErrSelfMark:                         http.StatusForbidden,
		service.ErrNotFound:                         http.StatusNotFound,
		fmt.Errorf("wrap: %w", service.ErrNotFound): http.StatusNotFound,
		service.ErrInvalidCredentials:               http.StatusUnauthorized,
		service.ErrUsernameTaken:                    http.StatusConflict,
		errors.New("db down"):                       http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusOf(err), err.Error())
	}
}
