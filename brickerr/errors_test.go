package brickerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/c360studio/semstreams/pkg/errs"
	"github.com/stretchr/testify/assert"
)

func TestInvalid(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Invalid(nil, "ontology", "Describe", "describe class"))
	})

	t.Run("wrapped kind is preserved", func(t *testing.T) {
		cause := fmt.Errorf("curie %q: %w", "foo:Bar", ErrUnknownPrefix)
		err := Invalid(cause, "ontology", "Describe", "describe class")

		assert.ErrorIs(t, err, ErrUnknownPrefix)
		assert.Contains(t, err.Error(), "ontology.Describe")
		assert.False(t, errs.IsTransient(err))
	})
}

func TestIsDataError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"malformed list", fmt.Errorf("walk: %w", ErrMalformedList), true},
		{"missing literal", ErrMissingLiteral, true},
		{"classified", Invalid(ErrNotAnIdentifier, "shape", "Extract", "read class"), true},
		{"foreign error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDataError(tt.err))
		})
	}
}
