package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("0xb416D5C1D8a7546F5Be3FA550374868d90d79615", 42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	address, userId, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "0xb416D5C1D8a7546F5Be3FA550374868d90d79615", address)
	assert.Equal(t, uint(42), userId)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateJWT("0xb416D5C1D8a7546F5Be3FA550374868d90d79615", 1)
	assert.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, _, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, _, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}
