package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Parse(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	claims, err := auth.Parse(signToken(t, testSecret, 7, RoleAdmin, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.True(t, claims.IsAdmin())

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "unsigned", token: none},
		{name: "wrong secret", token: signToken(t, "other", 7, "user", time.Hour)},
		{name: "expired", token: signToken(t, testSecret, 7, "user", -time.Hour)},
		{name: "no user", token: signToken(t, testSecret, 0, "user", time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Parse(tt.token)
			assert.Error(t, err)
		})
	}
}
