package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFormat(t *testing.T) {
	token := GenerateToken(nil)
	require.True(t, strings.HasPrefix(token, "tok_"), "got %q", token)
	assert.Len(t, token, len("tok_")+8)
	for _, c := range token[4:] {
		assert.True(t, strings.ContainsRune(tokenPool, c), "unexpected char %q", c)
	}
}

func TestTokenNeverCollidesWithExisting(t *testing.T) {
	existing := map[string]struct{}{}
	for i := 0; i < 500; i++ {
		token := GenerateToken(existing)
		_, dup := existing[token]
		require.False(t, dup, "duplicate token %q", token)
		existing[token] = struct{}{}
	}
}
