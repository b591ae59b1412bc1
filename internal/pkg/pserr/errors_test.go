package pserr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, "INVALID_REQUEST", "invalid request: some or all request parameters are invalid")
	changedE := e.Msg("%s", "changed")
	if e.Message == "changed" {
		t.Errorf("Expected immutable error with message not equal to 'changed', got '%s'", e.Message)
	}
	if changedE.Message != "changed" {
		t.Errorf("Expected immutable error with message equal to 'changed', got '%s'", changedE.Message)
	}
}

func TestWithExtrasDoesNotLeak(t *testing.T) {
	e := ErrInvalidReq.WithExtras(Extras{"field": "numberFilter"})

	assert.Nil(t, ErrInvalidReq.Extras)
	assert.Equal(t, "numberFilter", (*e.Extras)["field"])
}

func TestIsMatchesByCode(t *testing.T) {
	wrapped := errors.Wrap(ErrNotFound.Msg("expansion %q not found", "Z9"), "lookup")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidReq))
	assert.True(t, errors.Is(NewInvalidViolations([]string{"x"}), ErrInvalidReq))
}
