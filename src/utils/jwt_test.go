package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("u1", "inspector", "user", []string{"inspect_files_access"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "inspector", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, []string{"inspect_files_access"}, claims.Permissions)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWT("")
	assert.Error(t, err)

	_, err = ParseJWT("not.a.token")
	assert.Error(t, err)

	token, err := GenerateJWT("u1", "inspector", "user", nil)
	assert.NoError(t, err)
	_, err = ParseJWT(token + "x")
	assert.Error(t, err)
}

func TestHasPermission(t *testing.T) {
	admin := &JWTClaims{Role: "admin"}
	assert.True(t, admin.HasPermission("anything_at_all"))

	user := &JWTClaims{Role: "user", Permissions: []string{"schema_manage"}}
	assert.True(t, user.HasPermission("schema_manage"))
	assert.False(t, user.HasPermission("inspect_files_access"))
}
