package telegrask

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, Wrap(nil, "ctx"))
	assert.Equal(t, base, Wrap(base, ""))

	wrapped := Wrap(base, "loading")
	assert.EqualError(t, wrapped, "loading: boom")
	assert.ErrorIs(t, wrapped, base)
}

func TestWrapf(t *testing.T) {
	base := errors.New("boom")
	assert.Nil(t, Wrapf(nil, "x %d", 1))

	wrapped := Wrapf(base, "attempt %d", 3)
	assert.EqualError(t, wrapped, "attempt 3: boom")
	assert.ErrorIs(t, wrapped, base)
}

func TestIsCanceled(t *testing.T) {
	assert.False(t, IsCanceled(nil))
	assert.False(t, IsCanceled(errors.New("x")))
	assert.True(t, IsCanceled(context.Canceled))
	assert.True(t, IsCanceled(Wrap(context.Canceled, "op")))
}

func TestIsTimeout(t *testing.T) {
	assert.False(t, IsTimeout(nil))
	assert.False(t, IsTimeout(context.Canceled))
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.True(t, IsTimeout(Wrap(context.DeadlineExceeded, "op")))
}
