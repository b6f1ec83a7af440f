package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	typed := Clone(ErrInfeasible, "3 subjects but 2 time slots")
	wrapped := fmt.Errorf("run: %w", typed)

	got := FromError(wrapped)
	assert.Same(t, typed, got)
	assert.Equal(t, ExitInfeasible, got.ExitCode)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, ExitInternal, got.ExitCode)
	assert.Contains(t, got.Error(), "boom")
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	err := WrapAs(ErrInputMalformed, errors.New("bad cost"), "cost column \"Costos Salones\" row 3")
	assert.True(t, errors.Is(err, ErrInputMalformed))
	assert.False(t, errors.Is(err, ErrInputNotFound))
	assert.Equal(t, "cost column \"Costos Salones\" row 3: bad cost", err.Error())
}
