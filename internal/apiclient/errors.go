package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

var (
	ErrTokenMissing = errors.New("token response carried no token")
	ErrEmptyBaseURL = errors.New("remote api base url is empty")
)

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError is a non-2xx reply carrying a field -> messages map.
type ValidationError struct {
	StatusCode int
	Title      string
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	if first := e.First(); first != "" {
		return fmt.Sprintf("validation failed (%d): %s", e.StatusCode, first)
	}
	return fmt.Sprintf("validation failed (%d): %s", e.StatusCode, e.Title)
}

// First returns the message of the alphabetically first field, the one a form
// shows in its toast.
func (e *ValidationError) First() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msgs := e.Fields[k]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

func (e *ValidationError) Is(target error) bool {
	return target == models.ErrInvalidInput
}

// APIError is a non-2xx reply with an unstructured message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case models.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case models.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// DecodeError means a body that should have been JSON could not be parsed.
type DecodeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode response (%d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("decode response (%d): malformed body", e.StatusCode)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

const maxBodyInError = 512

func parseErrorBody(status int, contentType string, body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	looksJSON := strings.Contains(contentType, "json") ||
		strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")

	if trimmed == "" {
		return &APIError{StatusCode: status, Message: http.StatusText(status)}
	}
	if !looksJSON {
		return &APIError{StatusCode: status, Message: truncate(trimmed)}
	}
	if !gjson.Valid(trimmed) {
		return &DecodeError{StatusCode: status, Body: truncate(trimmed)}
	}

	title := firstString(trimmed, "title", "message", "error", "detail")
	if errs := gjson.Get(trimmed, "errors"); errs.IsObject() {
		fields := make(map[string][]string)
		errs.ForEach(func(key, value gjson.Result) bool {
			if value.IsArray() {
				for _, msg := range value.Array() {
					fields[key.String()] = append(fields[key.String()], msg.String())
				}
			} else {
				fields[key.String()] = append(fields[key.String()], value.String())
			}
			return true
		})
		return &ValidationError{StatusCode: status, Title: title, Fields: fields}
	}

	if title == "" {
		title = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: title}
}

func firstString(body string, paths ...string) string {
	for _, p := range paths {
		if r := gjson.Get(body, p); r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) > maxBodyInError {
		return s[:maxBodyInError]
	}
	return s
}
