package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BcryptHasher(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{}

	t.Run("hash password", func(t *testing.T) {
		got, err := h.Hash("password")
		require.NoError(t, err)

		require.Len(t, got, 60, "bcrypt length is 60 letters as far as i know")
		require.Equal(t, "$2a$", got[:4], "bcrypt hash should have prefix '$2a$'")
	})

	t.Run("hash is salted", func(t *testing.T) {
		first, err := h.Hash("password")
		require.NoError(t, err)

		second, err := h.Hash("password")
		require.NoError(t, err)

		require.NotEqual(t, first, second, "same password should produce different hashes thanks to salt")
	})

	t.Run("compare password ok", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		err = h.Compare(hash, "password")

		require.NoError(t, err)
	})

	t.Run("fail compare if wrong password", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		err = h.Compare(hash, "wrong")

		require.Error(t, err)
	})

	t.Run("malformed stored hash compares false", func(t *testing.T) {
		tests := []struct {
			name string
			hash string
		}{
			{"empty hash", ""},
			{"garbage hash", "not-a-bcrypt-hash"},
			{"truncated hash", "$2a$10$truncated"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := h.Compare(tt.hash, "password")

				require.Error(t, err, "malformed hash should compare as mismatch, not panic")
			})
		}
	})
}
