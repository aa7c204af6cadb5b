package auth

import (
	"context"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

// RemoteLogin checks administrator credentials against the remote API.
type RemoteLogin interface {
	AdminLogin(ctx context.Context, creds models.AdminCredentials) (string, error)
}
