package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Dev@Example.COM", "dev@example.com"},
		{"trims whitespace", "  dev@example.com  ", "dev@example.com"},
		{"collapses consecutive dots", "first..last@example.com", "first.last@example.com"},
		{"strips edge dots in local part", ".dev.@example.com", "dev@example.com"},
		{"already normalized", "dev@example.com", "dev@example.com"},
		{"not an email passes through", "not-an-email", "not-an-email"},
		{"multiple at signs pass through", "a@b@c", "a@b@c"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NormalizeEmail(tc.in))
		})
	}
}
