package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/utils"
	"github.com/MKhiriev/go-church-sync/models"
)

// authService issues HS256 device tokens. Any valid token may read and
// write every collection.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim of every issued token. Tokens with a
	// different issuer are rejected.
	tokenIssuer string

	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService returns an AuthService using the signing parameters of cfg.
func NewAuthService(cfg config.ServerAuth, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateToken issues a token whose subject is device.
//
// Returns ErrNoDeviceProvided for a blank device name or a wrapped
// ErrTokenCreationFailed if signing fails.
func (a *authService) CreateToken(ctx context.Context, device string) (models.Token, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return models.Token{}, ErrNoDeviceProvided
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, device, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	a.logger.Info().Str("device", device).Time("expires_at", token.ExpiresAt.Time).Msg("device token issued")
	return token, nil
}

// ParseToken verifies the signature, issuer and expiry of tokenString. Every
// failure is reported as ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
