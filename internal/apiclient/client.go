// Package apiclient is the typed transport to the remote brokerage API. Every
// call fetches a bearer token first, then issues the request; replies are
// unwrapped from the {"data": ...} envelope and failures are mapped onto
// TransportError, ValidationError, APIError or DecodeError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

const (
	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	// RateLimit caps outbound requests per second; zero disables the limiter.
	RateLimit  float64
	RetryCount int
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

type Client struct {
	rc      *resty.Client
	tokens  TokenSource
	limiter *rate.Limiter
	metrics *Metrics
}

type Option func(*Client)

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "*/*")

	c := &Client{rc: rc}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokens == nil {
		c.tokens = NewTokenProvider(c, cfg.ClientID, cfg.ClientSecret)
	}
	return c, nil
}

// AdminLogin exchanges administrator credentials for a remote token. It does
// not need a client token.
func (c *Client) AdminLogin(ctx context.Context, creds models.AdminCredentials) (string, error) {
	body, _, err := c.do(ctx, http.MethodPost, "/Auth/AdminLogin", false, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(creds)
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			return "", fmt.Errorf("%w: %v", models.ErrWrongCredentials, err)
		}
		return "", err
	}
	return tokenFrom(body)
}

// List fetches a collection into out, which must point to a slice.
func (c *Client) List(ctx context.Context, path string, out any) error {
	body, status, err := c.do(ctx, http.MethodGet, path, true, nil)
	if err != nil {
		return err
	}
	return decodeList(status, body, out)
}

// Get fetches one record into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	body, status, err := c.do(ctx, http.MethodGet, path, true, nil)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("GET %s: %w", path, models.ErrNotFound)
	}
	return decodeRecord(status, body, out)
}

// PostForm creates a record from a multipart form. A reply body is merged
// into out; an empty reply leaves out untouched.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out any) error {
	return c.sendForm(ctx, http.MethodPost, path, form, out)
}

func (c *Client) PutForm(ctx context.Context, path string, form *Form, out any) error {
	return c.sendForm(ctx, http.MethodPut, path, form, out)
}

func (c *Client) PutJSON(ctx context.Context, path string, payload any, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, payload any, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, out any) error {
	body, status, err := c.do(ctx, method, path, true, func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(payload)
	})
	if err != nil {
		return err
	}
	return mergeReply(status, body, out)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form *Form, out any) error {
	if form == nil {
		form = NewForm()
	}
	body, status, err := c.do(ctx, method, path, true, func(r *resty.Request) {
		r.SetMultipartFormData(form.Fields)
		for _, f := range form.Files {
			r.SetFileReader(f.FieldName, f.FileName, bytes.NewReader(f.Content))
		}
	})
	if err != nil {
		return err
	}
	return mergeReply(status, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, prepare func(*resty.Request)) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, &TransportError{Method: method, URL: path, Err: err}
		}
	}

	req := c.rc.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())

	if authed {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch token: %w", err)
		}
		req.SetAuthToken(token)
	}
	if prepare != nil {
		prepare(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(method, path, 0, elapsed)
		logger.Log.Debug("remote request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, 0, &TransportError{Method: method, URL: path, Err: err}
	}

	status := resp.StatusCode()
	c.metrics.observe(method, path, status, elapsed)
	logger.Log.Debug("remote request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", elapsed))

	if resp.IsError() || status >= http.StatusMultipleChoices {
		if status == http.StatusUnauthorized && authed {
			c.tokens.Invalidate()
		}
		return nil, status, parseErrorBody(status, resp.Header().Get("Content-Type"), resp.Body())
	}
	return resp.Body(), status, nil
}

func decodeList(status int, body []byte, out any) error {
	if !gjson.ValidBytes(body) {
		return &DecodeError{StatusCode: status, Body: truncate(string(body))}
	}
	raw := body
	if data := gjson.GetBytes(body, "data"); data.Exists() {
		if !data.IsArray() {
			return &DecodeError{StatusCode: status, Body: truncate(data.Raw), Err: fmt.Errorf("data is not a list")}
		}
		raw = []byte(data.Raw)
	} else if !gjson.ParseBytes(body).IsArray() {
		return &DecodeError{StatusCode: status, Body: truncate(string(body)), Err: fmt.Errorf("body is not a list")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{StatusCode: status, Err: err}
	}
	return nil
}

func decodeRecord(status int, body []byte, out any) error {
	if !gjson.ValidBytes(body) {
		return &DecodeError{StatusCode: status, Body: truncate(string(body))}
	}
	raw := body
	if data := gjson.GetBytes(body, "data"); data.Exists() {
		if data.Type == gjson.Null {
			return models.ErrNotFound
		}
		raw = []byte(data.Raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{StatusCode: status, Err: err}
	}
	return nil
}

func mergeReply(status int, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if !gjson.ValidBytes(body) {
		// Some mutation endpoints answer with a plain confirmation string.
		return nil
	}
	raw := body
	if data := gjson.GetBytes(body, "data"); data.Exists() {
		if !data.IsObject() {
			return nil
		}
		raw = []byte(data.Raw)
	} else if !gjson.ParseBytes(body).IsObject() {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{StatusCode: status, Err: err}
	}
	return nil
}

func tokenFrom(body []byte) (string, error) {
	for _, path := range []string{"token", "data.token", "accessToken", "data.accessToken"} {
		if t := gjson.GetBytes(body, path); t.Type == gjson.String && t.String() != "" {
			return t.String(), nil
		}
	}
	return "", ErrTokenMissing
}
