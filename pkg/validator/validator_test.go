package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()

		err := Apply(
			NotEmpty("a", "value"),
			ValidEmail("b", "dev@example.com"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()

		err := Apply(
			NotEmpty("a", ""),
			ValidEmail("b", "nope"),
		)
		require.Error(t, err)

		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
		assert.True(t, verrs.Has("a"))
		assert.True(t, verrs.Has("b"))
		assert.False(t, verrs.Has("c"))
	})

	t.Run("error message lists fields", func(t *testing.T) {
		t.Parallel()

		err := Apply(NotEmpty("name", ""))
		assert.Contains(t, err.Error(), "name: must not be empty")
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"dev@example.com",
		"first.last@sub.example.co.uk",
		"user+tag@example.com",
	}
	for _, email := range valid {
		assert.True(t, ValidEmail("email", email).Check(), email)
	}

	invalid := []string{
		"",
		"   ",
		"plainaddress",
		"@example.com",
		"dev@",
		"Dev Name <dev@example.com>",
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail("email", email).Check(), email)
	}
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	cfg := DefaultPasswordStrength()

	passing := []string{
		"Sup3rSecret",
		"lowercase1",
		"with-special-chars",
		"UPPER.lower",
	}
	for _, pw := range passing {
		assert.True(t, StrongPassword("password", pw, cfg).Check(), pw)
	}

	failing := []string{
		"short1",
		"alllowercase",
		"ALLUPPERCASE",
		"12345678",
	}
	for _, pw := range failing {
		assert.False(t, StrongPassword("password", pw, cfg).Check(), pw)
	}

	t.Run("max length enforced", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, cfg.MaxLength+1)
		for i := range long {
			long[i] = 'a'
		}
		assert.False(t, StrongPassword("password", "A1"+string(long), cfg).Check())
	})
}
