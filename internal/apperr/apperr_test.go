package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad %s", "input"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("locked"), http.StatusForbidden},
		{"not found", NotFound("cart %d not found", 3), http.StatusNotFound},
		{"conflict", Conflict("exists"), http.StatusConflict},
		{"internal", Internal(errors.New("boom"), "db failed"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("checkout: %w", Validation("empty cart")), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "cart 3 not found", Message(NotFound("cart %d not found", 3)))
	assert.Equal(t, "db failed", Message(Internal(errors.New("boom"), "db failed")))
	assert.Equal(t, "Internal server error", Message(errors.New("boom")))

	err := Internal(errors.New("boom"), "db failed")
	assert.Equal(t, "db failed: boom", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
