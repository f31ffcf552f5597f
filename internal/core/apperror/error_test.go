package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusesStayInPublicSet(t *testing.T) {
	errs := []*AppError{
		NewValidation("bad"),
		NewNotFound("invoice", "x"),
		NewInsufficientStock("s1", "Tiles", 6, 5),
		NewStockNotFound("s1"),
		NewInternal(errors.New("boom")),
		NewDuplicate("stock", "name", "Tiles"),
	}

	allowed := map[int]bool{
		http.StatusBadRequest:          true,
		http.StatusNotFound:            true,
		http.StatusInternalServerError: true,
	}
	for _, e := range errs {
		assert.True(t, allowed[e.HTTPStatus], "code %s has status %d", e.Code, e.HTTPStatus)
	}
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create invoice: %w", NewStockNotFound("s1"))

	assert.True(t, IsStockFailure(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(wrapped))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "s1", appErr.Details["stock_id"])
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(nil).WithCause(cause).WithDetail("op", "insert")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert", err.Details["op"])
	assert.Contains(t, err.Error(), "connection reset")
}
