package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "input")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", ErrTestNotFound)))
	assert.Equal(t, KindPersistence, KindOf(errors.New("disk on fire")))
}

func TestSentinelMatchesByKindAndMessage(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NotFound("the linked test may have been deleted"))

	assert.True(t, errors.Is(wrapped, ErrLinkedTestMissing))
	assert.False(t, errors.Is(wrapped, ErrResultNotFound))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		KindValidation:   http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindForbidden:    http.StatusForbidden,
		KindConflict:     http.StatusConflict,
		KindUnauthorized: http.StatusUnauthorized,
		KindPersistence:  http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence(cause, "could not save the result")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "could not save the result")
}
