// Package auth signs administrators in through the remote API and issues the
// session token the back office checks on every request.
package auth

import (
	"context"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

const CookieName = "auth_token"

type AuthService interface {
	Login(ctx context.Context, creds models.AdminCredentials) (token string, err error)
	GetJWT(ctx context.Context, userID string) (tokenString string, err error)
	ValidateJWT(ctx context.Context, tokenString string) error
	GetUserFromJWT(ctx context.Context, tokenString string) (string, error)
}
