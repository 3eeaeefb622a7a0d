package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordEqual(t *testing.T) {
	assert.True(t, PasswordEqual("cteagms25", "cteagms25"))
	assert.False(t, PasswordEqual("cteagms25 ", "cteagms25"))
	assert.False(t, PasswordEqual("", "cteagms25"))
	assert.True(t, PasswordEqual("", ""))
}

func TestNewAdminToken(t *testing.T) {
	tok, err := NewAdminToken("secret", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.Len(t, tok.SID, 32)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, time.Minute)

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, tok.SID, claims["sid"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestTokensGetDistinctSessionIDs(t *testing.T) {
	a, err := NewAdminToken("secret", 5)
	require.NoError(t, err)
	b, err := NewAdminToken("secret", 5)
	require.NoError(t, err)
	assert.NotEqual(t, a.SID, b.SID)
}
