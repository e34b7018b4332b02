package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth", &AuthenticationError{Reason: "missing token"}, 401},
		{"validation", &ValidationError{Message: "title is required"}, 400},
		{"not found", fmt.Errorf("load: %w", &NotFoundError{Resource: "topic"}), 404},
		{"conflict", &ConflictError{Message: "slug taken"}, 409},
		{"upstream", &UpstreamError{StatusCode: 429}, 502},
		{"parse", &ParseError{Raw: "nope"}, 502},
		{"persistence", Persistence("insert version", errors.New("boom")), 500},
		{"config", &ConfigurationError{Key: "LLM_API_KEY"}, 500},
		{"fiber", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), 413},
		{"plain", errors.New("x"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPersistenceDoesNotDoubleWrap(t *testing.T) {
	inner := Persistence("insert version", errors.New("duplicate key"))
	outer := Persistence("upsert pointer", inner)

	assert.Same(t, inner, outer)
	assert.Nil(t, Persistence("noop", nil))
}

func TestUpstreamTransient(t *testing.T) {
	assert.True(t, (&UpstreamError{StatusCode: 429}).Transient())
	assert.True(t, (&UpstreamError{StatusCode: 503}).Transient())
	assert.False(t, (&UpstreamError{StatusCode: 400}).Transient())
	assert.False(t, (&UpstreamError{StatusCode: 401}).Transient())
}
