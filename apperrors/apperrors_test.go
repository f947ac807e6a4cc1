package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Forbidden("category mismatch"))

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusForbidden, KindOf(err).Status)
}

func TestKindOfUnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	err := Internal("failed to insert report", errors.New("connection reset"))

	assert.Equal(t, "something went wrong", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "title is required", PublicMessage(Validation("title is required")))
}
