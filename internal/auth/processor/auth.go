package processor

import (
	"callassist-server/internal/config"
	"callassist-server/internal/observability"
	"errors"
)

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrExpiredToken    = errors.New("token expired")
	ErrParseJWTToken   = errors.New("failed to parse jwt token")
	ErrFailedSignToken = errors.New("failed to sign token")
)

const (
	tokenIssuer   = "callassist-server"
	tokenAudience = "callassist-server"
)

// AuthProcessor issues and verifies the bearer tokens used by the account
// dashboard. The subject of a token is the account id.
type AuthProcessor struct {
	authConfig config.AuthConfig
	logger     *observability.Logger
}

func New(authConfig config.AuthConfig, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		authConfig: authConfig,
		logger:     logger,
	}
}
