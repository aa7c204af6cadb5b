package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"

	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

const DefaultSessionTTL = 10 * time.Hour

type AService struct {
	remote RemoteLogin
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAService(remote RemoteLogin, secret []byte, ttl time.Duration) *AService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AService{remote: remote, secret: secret, ttl: ttl, now: time.Now}
}

func (a *AService) Login(ctx context.Context, creds models.AdminCredentials) (string, error) {
	creds.UserID = strings.TrimSpace(creds.UserID)
	if creds.UserID == "" || creds.Password == "" {
		return "", fmt.Errorf("user id and password are required: %w", models.ErrInvalidInput)
	}
	if _, err := a.remote.AdminLogin(ctx, creds); err != nil {
		logger.Log.Debug("admin login rejected", zap.String("user", creds.UserID), zap.Error(err))
		return "", err
	}
	token, err := a.GetJWT(ctx, creds.UserID)
	if err != nil {
		logger.Log.Debug("can not create JWT", zap.Error(err))
		return "", err
	}
	return token, nil
}

func (a *AService) GetJWT(_ context.Context, userID string) (string, error) {
	now := a.now()
	claims := &models.Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *AService) ValidateJWT(ctx context.Context, tokenString string) error {
	_, err := a.GetUserFromJWT(ctx, tokenString)
	return err
}

func (a *AService) GetUserFromJWT(_ context.Context, tokenString string) (string, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %v", token.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	if claims.ExpiresAt == 0 || claims.UserID == "" {
		return "", fmt.Errorf("%w: incomplete claims", models.ErrUnauthorized)
	}
	return claims.UserID, nil
}
