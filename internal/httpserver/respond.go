package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

const (
	maxUploadSize = 10 << 20
	payloadField  = "payload"
	fileField     = "file"
	viewCookie    = "view_"
	queryCookie   = "listq_"
)

type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func SendJSON(rw http.ResponseWriter, status int, message string, data any) {
	body, err := json.Marshal(envelope{Status: status, Message: message, Data: data})
	if err != nil {
		logger.Log.Error("can not encode response", zap.Error(err))
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_, _ = rw.Write(body)
}

// SendError maps a service error onto an HTTP status.
func SendError(rw http.ResponseWriter, err error) {
	var (
		verr *apiclient.ValidationError
		aerr *apiclient.APIError
		terr *apiclient.TransportError
		derr *apiclient.DecodeError
	)
	switch {
	case errors.As(err, &verr):
		SendJSON(rw, http.StatusUnprocessableEntity, verr.First(), verr.Fields)
	case errors.Is(err, models.ErrRemarksRequired),
		errors.Is(err, models.ErrInvalidInput):
		SendJSON(rw, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrNotEditable):
		SendJSON(rw, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoData):
		SendJSON(rw, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, models.ErrWrongCredentials):
		SendJSON(rw, http.StatusUnauthorized, "wrong user id or password", nil)
	case errors.As(err, &aerr), errors.As(err, &terr), errors.As(err, &derr):
		logger.Log.Warn("remote api failure", zap.Error(err))
		SendJSON(rw, http.StatusBadGateway, "remote api unavailable", nil)
	case errors.Is(err, models.ErrUnauthorized):
		SendJSON(rw, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, context.DeadlineExceeded):
		SendJSON(rw, http.StatusGatewayTimeout, "request timed out", nil)
	default:
		logger.Log.Error("request failed", zap.Error(err))
		SendJSON(rw, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil)
	}
}

// parseListQuery reads q, filter, page and view. The view mode sticks per
// resource through a cookie; another cookie remembers the last search and
// filter set so that changing either starts again from page one.
func parseListQuery(rw http.ResponseWriter, r *http.Request, resource string) listing.Query {
	v := r.URL.Query()
	page, _ := strconv.Atoi(v.Get("page"))
	q := listing.Query{
		Term:    v.Get("q"),
		Filters: v["filter"],
		Page:    page,
	}
	name := viewCookie + resource
	if raw := v.Get("view"); raw != "" {
		q.Mode = listing.ParseViewMode(raw)
		http.SetCookie(rw, &http.Cookie{
			Name:     name,
			Value:    string(q.Mode),
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
		})
	} else if c, err := r.Cookie(name); err == nil {
		q.Mode = listing.ParseViewMode(c.Value)
	} else {
		q.Mode = listing.ViewGrid
	}

	sig := base64.RawURLEncoding.EncodeToString([]byte(q.Signature()))
	qname := queryCookie + resource
	if c, err := r.Cookie(qname); err == nil && c.Value != sig {
		q.Page = 1
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     qname,
		Value:    sig,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return q
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", chi.URLParam(r, "id"), models.ErrInvalidInput)
	}
	return id, nil
}

// decodeBody reads a JSON body, or a multipart form whose "payload" part
// carries the JSON and whose "file" part is an optional upload.
func decodeBody(r *http.Request, dst any) (*models.Upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(dst); err != nil {
			return nil, fmt.Errorf("decode body: %w", models.ErrInvalidInput)
		}
		return nil, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, fmt.Errorf("parse form: %w", models.ErrInvalidInput)
		}
		if err := json.Unmarshal([]byte(r.FormValue(payloadField)), dst); err != nil {
			return nil, fmt.Errorf("decode payload: %w", models.ErrInvalidInput)
		}
		f, hdr, err := r.FormFile(fileField)
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", models.ErrInvalidInput)
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", models.ErrInvalidInput)
		}
		return &models.Upload{FileName: hdr.Filename, Content: content}, nil
	default:
		return nil, fmt.Errorf("content type %q: %w", strings.TrimSpace(mediaType), models.ErrInvalidInput)
	}
}
