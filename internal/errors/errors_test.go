package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"conflict", Conflict("already in use"), http.StatusBadRequest},
		{"expired", Expired("otp expired"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("bad credentials"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"provider", Provider("smtp down", stderrors.New("dial tcp")), http.StatusInternalServerError},
		{"internal", E(KindInternal, "boom"), http.StatusInternalServerError},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("handler: %w", NotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "bad input", Message(Validation("bad input")))
	assert.Equal(t, "missing", Message(fmt.Errorf("handler: %w", NotFound("missing"))))

	// Unclassified errors must not leak internals to clients.
	assert.Equal(t, "internal server error", Message(stderrors.New("pq: connection refused")))
}

func TestIsKind(t *testing.T) {
	err := Conflict("already in use")
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(stderrors.New("boom"), KindConflict))

	wrapped := fmt.Errorf("service: %w", err)
	assert.True(t, IsKind(wrapped, KindConflict))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Wrap(KindProvider, "smtp down", cause)

	assert.Equal(t, "smtp down", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}
