package controllers

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weaver/weaver/apperrors"
	"weaver/weaver/config"
)

type AuthController struct {
	cfg config.Config
}

func NewAuthController(cfg config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

// Token mints a bearer token for the internal endpoint-management surface.
func (c *AuthController) Token(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperrors.New(apperrors.Validation, "User ID is required")
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
