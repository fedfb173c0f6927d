package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormatsDetailIntoMessage(t *testing.T) {
	err := New(Arity, "predicate %s wants %d args, got %d", "on", 2, 1)
	assert.Contains(t, err.Error(), "on")
	assert.Contains(t, err.Error(), "wrong arity")
}

func TestNewWrapsMatchingSentinel(t *testing.T) {
	err := New(TypeMismatch, "expected number")
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.False(t, errors.Is(err, ErrArity))
}

func TestErrorKindStringMatchesConstant(t *testing.T) {
	cases := map[Kind]string{
		UnknownSymbol:   "UnknownSymbol",
		TypeMismatch:    "TypeMismatch",
		Arity:           "Arity",
		MalformedEffect: "MalformedEffect",
		ResolverLimit:   "ResolverLimit",
		GroundingLimit:  "GroundingLimit",
		IllFormedState:  "IllFormedState",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestUnwrapExposesSentinel(t *testing.T) {
	err := New(ResolverLimit, "depth exceeded")
	assert.ErrorIs(t, errors.Unwrap(err), ErrResolverLimit)
}
