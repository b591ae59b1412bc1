package cache

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingularMutexGetSet(t *testing.T) {
	c := NewSingular[string]("greeting")

	_, err := c.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	calls := 0
	valueFunc := func() (string, error) {
		calls++
		return "hello", nil
	}

	v, err := c.MutexGetSet(valueFunc, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = c.MutexGetSet(valueFunc, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, 1, calls)

	c.Delete()
	_, err = c.Get()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSingularErrorIsNotCached(t *testing.T) {
	c := NewSingular[int]("answer")
	boom := errors.New("boom")

	_, err := c.MutexGetSet(func() (int, error) { return 0, boom }, time.Minute)
	assert.ErrorIs(t, err, boom)

	v, err := c.MutexGetSet(func() (int, error) { return 42, nil }, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
