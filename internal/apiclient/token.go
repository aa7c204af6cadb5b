package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-resty/resty/v2"
)

const tokenExpirySkew = 30 * time.Second

type tokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// TokenProvider exchanges the client credential pair for a bearer token. A
// token whose JWT carries an exp claim is reused until shortly before it
// expires; opaque tokens are fetched again for every call.
type TokenProvider struct {
	c      *Client
	creds  tokenRequest
	now    func() time.Time
	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenProvider(c *Client, clientID, clientSecret string) *TokenProvider {
	return &TokenProvider{
		c:     c,
		creds: tokenRequest{ClientID: clientID, ClientSecret: clientSecret},
		now:   time.Now,
	}
}

func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expiry) {
		return p.token, nil
	}

	body, _, err := p.c.do(ctx, http.MethodPost, "/Auth/Token", false, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(p.creds)
	})
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	token, err := tokenFrom(body)
	if err != nil {
		return "", err
	}

	p.token = ""
	if exp := expiryOf(token); !exp.IsZero() {
		p.token = token
		p.expiry = exp.Add(-tokenExpirySkew)
	}
	return token, nil
}

func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.expiry = time.Time{}
}

func expiryOf(token string) time.Time {
	claims := &jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(claims.ExpiresAt, 0)
}
