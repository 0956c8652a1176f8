package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindMissingCredential, http.StatusUnauthorized},
		{KindInvalidCredential, http.StatusUnauthorized},
		{KindInvalidIdentifier, http.StatusBadRequest},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindStore, http.StatusInternalServerError},
		{Kind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := NotFound("API key")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidIdentifier)

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.True(t, IsKind(wrapped, KindNotFound))
}

func TestStore_KeepsCauseHidesMessage(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Store(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "An internal error occurred", err.Message)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestFrom(t *testing.T) {
	assert.Same(t, ErrInvalidCredential, From(ErrInvalidCredential))
	assert.Same(t, ErrMissingCredential, From(fmt.Errorf("auth: %w", ErrMissingCredential)))

	plain := errors.New("boom")
	got := From(plain)
	assert.Equal(t, KindStore, got.Kind)
	assert.ErrorIs(t, got, plain)
}

func TestInvalidCredentialHasSingleMessage(t *testing.T) {
	assert.Equal(t, "Invalid or expired API key", ErrInvalidCredential.Message)
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidCredential.Status())
}
