package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomTokenGenerator_Generate(t *testing.T) {
	g := NewRandomTokenGenerator(SubscriptionTokenLength)
	alnum := regexp.MustCompile(`^[A-Za-z0-9]{25}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := g.Generate()
		require.NoError(t, err)
		assert.Regexp(t, alnum, token)
		_, dup := seen[token]
		require.False(t, dup, "token %q generated twice", token)
		seen[token] = struct{}{}
	}
}

func TestRandomTokenGenerator_minimumLength(t *testing.T) {
	token, err := NewRandomTokenGenerator(8).Generate()
	require.NoError(t, err)
	assert.Len(t, token, SubscriptionTokenLength)

	token, err = NewRandomTokenGenerator(40).Generate()
	require.NoError(t, err)
	assert.Len(t, token, 40)
}
