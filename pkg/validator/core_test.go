package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcflow/accesskit/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("name", "treasury"),
			validator.MinLen("name", "treasury", 3),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("firstName", ""),
			validator.Required("lastName", ""),
			validator.Required("email", "ops@example.com"),
		)
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		require.Len(t, verrs, 2)
		assert.True(t, verrs.Has("firstName"))
		assert.True(t, verrs.Has("lastName"))
		assert.False(t, verrs.Has("email"))
	})

	t.Run("field map shape", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("email", ""),
			validator.ValidEmail("email", ""),
		)
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		m := verrs.FieldMap()
		require.Len(t, m["email"], 2)
		assert.Equal(t, []string{"email"}, verrs.Fields())
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, validator.ExtractValidationErrors(nil))
		assert.False(t, validator.IsValidationError(nil))
	})

	t.Run("unrelated error", func(t *testing.T) {
		t.Parallel()
		err := errors.New("boom")
		assert.Nil(t, validator.ExtractValidationErrors(err))
		assert.False(t, validator.IsValidationError(err))
	})

	t.Run("wrapped validation errors", func(t *testing.T) {
		t.Parallel()
		inner := validator.Apply(validator.Required("phone", ""))
		wrapped := fmt.Errorf("step 2: %w", inner)
		assert.True(t, validator.IsValidationError(wrapped))
		assert.Len(t, validator.ExtractValidationErrors(wrapped), 1)
	})
}
