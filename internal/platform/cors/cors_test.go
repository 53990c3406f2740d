package cors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAllowedOrigins(t *testing.T) {
	t.Run("splits and trims a comma list", func(t *testing.T) {
		origins, err := ParseAllowedOrigins(" https://app.internal , https://ops.internal ,")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://app.internal", "https://ops.internal"}, origins)
	})

	t.Run("rejects blank", func(t *testing.T) {
		_, err := ParseAllowedOrigins("   ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be blank")
	})

	t.Run("rejects wildcard", func(t *testing.T) {
		_, err := ParseAllowedOrigins("*")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wildcard")
	})

	t.Run("rejects list of empty entries", func(t *testing.T) {
		_, err := ParseAllowedOrigins(" , ,")
		require.Error(t, err)
	})
}
