package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"playgrid/backend/internal/room"
)

func TestGenerateCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		code := generateCode()
		require.Len(t, code, codeLength)
		for _, r := range code {
			assert.Contains(t, codeAlphabet, string(r))
		}
		assert.Equal(t, strings.ToUpper(code), code)
		seen[code] = true
	}
	// 36^6 codes; ten draws colliding would point at a broken generator.
	assert.Greater(t, len(seen), 1)
}

func TestCreateWithRetry_RetriesOnCollision(t *testing.T) {
	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	i := 0
	gen := func() string {
		code := codes[i]
		i++
		return code
	}

	inserted := make(map[string]bool)
	insert := func(code string) error {
		if inserted[code] {
			return gorm.ErrDuplicatedKey
		}
		inserted[code] = true
		return nil
	}

	code, err := createWithRetry(gen, insert)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", code)

	code, err = createWithRetry(gen, insert)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", code)
	assert.Equal(t, 3, i)
}

func TestCreateWithRetry_ExhaustsRetries(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		return "TAKEN1"
	}
	insert := func(string) error { return gorm.ErrDuplicatedKey }

	_, err := createWithRetry(gen, insert)
	require.Error(t, err)
	assert.ErrorIs(t, err, room.ErrExhaustedRetries)
	assert.Equal(t, maxCodeRetries, calls)
}

func TestCreateWithRetry_PropagatesOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	insert := func(string) error {
		calls++
		return boom
	}

	_, err := createWithRetry(generateCode, insert)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
