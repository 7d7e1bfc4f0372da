package authx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/predictupload/internal/common"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestCheckToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "  ", wantErr: common.ErrUnauthorized},
		{name: "opaque token accepted", token: "abc123"},
		{name: "valid jwt", token: signed(t, now.Add(time.Hour))},
		{name: "valid jwt with bearer prefix", token: "Bearer " + signed(t, now.Add(time.Hour))},
		{name: "expired jwt", token: signed(t, now.Add(-time.Hour)), wantErr: common.ErrTokenExpired},
		{name: "within leeway", token: signed(t, now.Add(-10*time.Second))},
		{name: "garbage with dots passes through", token: "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckToken(tt.token, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Bearer tok", Header("tok"))
	assert.Equal(t, "Bearer tok", Header("bearer tok"))
	assert.Equal(t, "Bearer tok", Header(" Bearer  tok "))
}
