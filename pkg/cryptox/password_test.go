package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesPHCFormat(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Sup3rSecret")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Contains(t, parts[3], "m=")
	require.Contains(t, parts[3], "t=")
	require.Contains(t, parts[3], "p=")
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-input")
	require.NoError(t, err)
	b, err := HashPassword("same-input")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abc123xyz")
	require.NoError(t, err)

	t.Run("correct password matches", func(t *testing.T) {
		require.NoError(t, VerifyPassword("Abc123xyz", hash))
	})

	t.Run("wrong password is a clean mismatch", func(t *testing.T) {
		err := VerifyPassword("Abc123xyZ", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("empty password is a clean mismatch", func(t *testing.T) {
		err := VerifyPassword("", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("garbage hash is an engine failure", func(t *testing.T) {
		err := VerifyPassword("Abc123xyz", "not-a-phc-hash")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("empty hash is an engine failure", func(t *testing.T) {
		err := VerifyPassword("Abc123xyz", "")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrPasswordMismatch)
	})
}

func TestVerifyPasswordToleratesShortInput(t *testing.T) {
	t.Parallel()

	// Length policy lives in the auth workflow; the hasher itself must
	// handle anything it is given.
	hash, err := HashPassword("a")
	require.NoError(t, err)
	require.NoError(t, VerifyPassword("a", hash))
}
