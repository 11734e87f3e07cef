package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrConflict, http.StatusConflict},
		{ErrUserAlreadyExists, http.StatusConflict},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := &AppError{Code: tt.code}
			assert.Equal(t, tt.want, err.StatusCode())
		})
	}
}

func TestAs_UnwrapsWrappedErrors(t *testing.T) {
	base := NotFound("doctor", stderrors.New("no rows"))
	wrapped := fmt.Errorf("failed to get doctor: %w", base)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNotFound, appErr.Code)
	assert.Equal(t, "doctor not found: no rows", appErr.Error())
	assert.True(t, HasCode(wrapped, ErrNotFound))
	assert.False(t, HasCode(wrapped, ErrConflict))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("name", "Name is required")
	fe.Add("name", "ignored")
	fe.Add("availableToTime", "Available to time must be after available from time")

	err := fe.Err()
	require.Error(t, err)
	assert.Equal(t, "Name is required", fe["name"])
	assert.True(t, fe.Has("availableToTime"))
	assert.Equal(t, "validation failed: availableToTime: Available to time must be after available from time; name: Name is required", err.Error())

	got, ok := AsFieldErrors(fmt.Errorf("invalid doctor: %w", err))
	require.True(t, ok)
	assert.Len(t, got, 2)
}
