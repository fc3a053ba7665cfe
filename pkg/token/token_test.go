package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playgrid/backend/pkg/token"
)

func TestSignParse_RoundTrip(t *testing.T) {
	signed, err := token.Sign("test-secret", "session-id-123")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	sessionID, err := token.Parse("test-secret", signed)
	require.NoError(t, err)
	assert.Equal(t, "session-id-123", sessionID)
}

func TestParse_WrongSecret(t *testing.T) {
	signed, err := token.Sign("test-secret", "session-id-123")
	require.NoError(t, err)

	_, err = token.Parse("other-secret", signed)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	for _, value := range []string{"", "not-a-token", "a.b.c"} {
		_, err := token.Parse("test-secret", value)
		assert.Error(t, err, "value %q", value)
	}
}
