// internal/pkg/auth/password_test.go
package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordManager() *PasswordManager {
	cfg := testConfig()
	cfg.Security.BcryptCost = 4 // minimum cost keeps tests fast
	return NewPasswordManager(cfg)
}

func TestHashAndVerifyPassword(t *testing.T) {
	manager := testPasswordManager()

	hash, err := manager.HashPassword("Sup3rSecret")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3rSecret", hash)

	assert.NoError(t, manager.VerifyPassword("Sup3rSecret", hash))
	assert.Error(t, manager.VerifyPassword("wrongPassw0rd", hash))
}

func TestValidatePassword(t *testing.T) {
	manager := testPasswordManager()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3rSecret", false},
		{"too short", "Ab1", true},
		{"too long", strings.Repeat("Ab1", 50), true},
		{"no uppercase", "sup3rsecret", true},
		{"no lowercase", "SUP3RSECRET", true},
		{"no number", "SuperSecret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
