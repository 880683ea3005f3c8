package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	token, err := Issue("stu-1", "ada@example.com", "Ada", RoleStudent, "academy-api", "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := Parse(token.Value, "secret", "academy-api")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, RoleStudent, claims.Role)
}

func TestParseWrongKey(t *testing.T) {
	token, err := Issue("stu-1", "ada@example.com", "Ada", RoleStudent, "academy-api", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token.Value, "other-secret", "academy-api")
	assert.Error(t, err)
}

func TestParseIssuerMismatch(t *testing.T) {
	token, err := Issue("adm-1", "boss@example.com", "Boss", RoleAdmin, "someone-else", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token.Value, "secret", "academy-api")
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	token, err := Issue("stu-1", "ada@example.com", "Ada", RoleStudent, "academy-api", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token.Value, "secret", "academy-api")
	assert.Error(t, err)
}
