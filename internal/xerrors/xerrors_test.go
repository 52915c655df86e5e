package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexErrorIs(t *testing.T) {
	a := NewDuplicateKeyError("Add", "AAPL")
	b := NewDuplicateKeyError("Add", "AAPL")
	c := NewDuplicateKeyError("Add", "ORCL")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestArrayErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewSerializationError("WriteTo", cause)
	assert.ErrorIs(t, err, cause)
}

func TestOutOfBoundsMessage(t *testing.T) {
	err := NewOutOfBoundsError("GetInt", 10, 5)
	assert.Contains(t, err.Error(), "10")
	assert.Contains(t, err.Error(), "5")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("callback exploded")
	err := Wrap(KindFrame, "ForEach", cause)
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(KindArray, "op", nil))
}
