package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("domain error passes through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading: %w", NewForbidden("nope"))
		de := ToDomainError(wrapped)
		assert.Equal(t, CodeForbidden, de.Code)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		de := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, CodeNotFound, de.Code)
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}

func TestNewInvalidTransitionCarriesState(t *testing.T) {
	err := NewInvalidTransition("delete", "in-progress", "")
	de := ToDomainError(err)
	assert.Equal(t, CodeInvalidTransition, de.Code)
	assert.Equal(t, "in-progress", de.Details["status"])
	_, hasTL := de.Details["tl_status"]
	assert.False(t, hasTL)

	de = ToDomainError(NewInvalidTransition("ticket_approval", "in-progress-tl-level", "approved"))
	assert.Equal(t, "approved", de.Details["tl_status"])
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewInsufficientBalance("SickLeave", 0), CodeInsufficientBalance))
	assert.False(t, HasCode(errors.New("x"), CodeInsufficientBalance))
}

func TestMapErrorKeepsNilUntyped(t *testing.T) {
	var err error = MapError(nil)
	assert.True(t, err == nil)
	assert.True(t, HasCode(MapError(pgx.ErrNoRows), CodeNotFound))
}
