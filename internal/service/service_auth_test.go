package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/utils"
)

func newTestAuthService() AuthService {
	return NewAuthService(config.ServerAuth{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "church-sync",
		TokenDuration: time.Hour,
	}, logger.Nop())
}

// ─────────────────────────────────────────────
// CreateToken
// ─────────────────────────────────────────────

func TestAuthService_CreateToken(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.CreateToken(context.Background(), "  secretaria-sede ")
	require.NoError(t, err)

	assert.NotEmpty(t, token.String())
	assert.Equal(t, "secretaria-sede", token.Subject)
	assert.Equal(t, "church-sync", token.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt.Time, time.Minute)
}

func TestAuthService_CreateToken_NoDevice(t *testing.T) {
	svc := newTestAuthService()

	for _, device := range []string{"", "   "} {
		_, err := svc.CreateToken(context.Background(), device)
		assert.ErrorIs(t, err, ErrNoDeviceProvided)
	}
}

func TestAuthService_CreateToken_MisconfiguredKey(t *testing.T) {
	svc := NewAuthService(config.ServerAuth{TokenIssuer: "church-sync", TokenDuration: time.Hour}, logger.Nop())

	_, err := svc.CreateToken(context.Background(), "recepcao")
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

// ─────────────────────────────────────────────
// ParseToken
// ─────────────────────────────────────────────

func TestAuthService_ParseToken_RoundTrip(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	issued, err := svc.CreateToken(ctx, "recepcao")
	require.NoError(t, err)

	parsed, err := svc.ParseToken(ctx, issued.String())
	require.NoError(t, err)
	assert.Equal(t, "recepcao", parsed.Device)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc := newTestAuthService()

	otherKey, err := utils.GenerateJWTToken("church-sync", "recepcao", time.Hour, "another-key")
	require.NoError(t, err)
	otherIssuer, err := utils.GenerateJWTToken("someone-else", "recepcao", time.Hour, "test-sign-key")
	require.NoError(t, err)
	expired, err := utils.GenerateJWTToken("church-sync", "recepcao", -time.Minute, "test-sign-key")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
		{name: "wrong key", token: otherKey.String()},
		{name: "wrong issuer", token: otherIssuer.String()},
		{name: "expired", token: expired.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
