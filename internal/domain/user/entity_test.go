// internal/domain/user/entity_test.go
package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFullName(t *testing.T) {
	u := User{FirstName: "Jordan", LastName: "Reyes"}
	assert.Equal(t, "Jordan Reyes", u.GetFullName())

	u = User{FirstName: "Jordan"}
	assert.Equal(t, "Jordan", u.GetFullName())

	u = User{}
	assert.Empty(t, u.GetFullName())
}

func TestGetDisplayNameFallsBackToEmail(t *testing.T) {
	u := User{FirstName: "Jordan", LastName: "Reyes", Email: "jordan@example.com"}
	assert.Equal(t, "Jordan Reyes", u.GetDisplayName())

	u = User{Email: "jordan@example.com"}
	assert.Equal(t, "jordan@example.com", u.GetDisplayName())
}

func TestBeforeCreateNormalizes(t *testing.T) {
	u := User{Email: "Jordan@Example.COM"}
	require.NoError(t, u.BeforeCreate(nil))

	assert.Equal(t, "jordan@example.com", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
}
