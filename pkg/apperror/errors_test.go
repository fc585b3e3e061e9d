package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("Invoice").Code)
	assert.Equal(t, "Invoice not found", NewNotFoundError("Invoice").Message)
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError("bad").Code)
	assert.Equal(t, http.StatusConflict, NewConflictError("dup").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, NewUnprocessableError("rule").Code)
}

func TestGetAppError(t *testing.T) {
	appErr := NewUnprocessableError("Insufficient stock")
	assert.True(t, IsAppError(appErr))
	assert.Equal(t, appErr, GetAppError(appErr))

	// Wrapped AppErrors still unwrap
	wrapped := fmt.Errorf("creating invoice: %w", appErr)
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, GetAppError(wrapped).Code)

	// Anything else maps to a 500
	plain := errors.New("boom")
	assert.False(t, IsAppError(plain))
	got := GetAppError(plain)
	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Equal(t, "boom", got.Message)
}

func TestValidationErrorCollectsFields(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "email", Message: "invalid format"},
		{Field: "password", Message: "too short"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Len(t, err.Errors, 2)
}
