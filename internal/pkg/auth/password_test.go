package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/retail-backend/internal/config"
)

func newTestPasswordManager() *PasswordManager {
	return NewPasswordManager(&config.Config{
		Security: config.SecurityConfig{BcryptCost: 4},
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	manager := newTestPasswordManager()

	hash, err := manager.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	require.NoError(t, manager.VerifyPassword("secret123", hash))
	require.Error(t, manager.VerifyPassword("wrong-password", hash))
}

func TestHashPasswordRejectsInvalidLength(t *testing.T) {
	manager := newTestPasswordManager()

	_, err := manager.HashPassword("short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")

	_, err = manager.HashPassword(strings.Repeat("a", 129))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no more than 128 characters")
}

func TestGenerateTemporaryPassword(t *testing.T) {
	manager := newTestPasswordManager()

	first, err := manager.GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.Len(t, first, 12)
	require.NoError(t, manager.ValidatePassword(first))

	second, err := manager.GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
