package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPasswordService(t *testing.T) {
	service := NewBcryptPasswordService(bcrypt.MinCost)

	t.Run("hash and compare", func(t *testing.T) {
		hash, err := service.HashPassword("correct-horse-battery")
		require.NoError(t, err)
		assert.NotEqual(t, "correct-horse-battery", hash)

		assert.NoError(t, service.ComparePassword(hash, "correct-horse-battery"))
		assert.ErrorIs(t, service.ComparePassword(hash, "wrong-password"), bcrypt.ErrMismatchedHashAndPassword)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := service.HashPassword("")
		assert.ErrorIs(t, err, ErrEmptyPassword)
		assert.ErrorIs(t, service.ComparePassword("", "x"), ErrEmptyPassword)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := service.HashPassword(strings.Repeat("a", 73))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("default cost", func(t *testing.T) {
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptPasswordService(0).cost)
	})
}
