package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-123", "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Parse(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "studytrack", claims.Issuer)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-123", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, "secret")
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "other-secret")
	assert.Error(t, err)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken("user-123", "secret", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = Parse(tampered, "secret")
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-token", "secret")
	assert.Error(t, err)
}
