package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/auth"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/networks"
	"github.com/Fuonder/bmadsoffice/internal/wallets"
	"github.com/Fuonder/bmadsoffice/internal/workflow"
)

type fakeAuth struct {
	auth.AuthService
	users map[string]string
}

func (f fakeAuth) GetUserFromJWT(_ context.Context, token string) (string, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return "", fmt.Errorf("parse token: %w", models.ErrUnauthorized)
}

type fakeNetworks struct {
	networks.NetworkService
	items []models.CryptoNetwork
	got   listing.Query
}

func (f *fakeNetworks) List(_ context.Context, q listing.Query) (listing.Page[models.CryptoNetwork], error) {
	f.got = q
	return listing.Apply(networks.ListingConfig(), f.items, q), nil
}

type fakeInvoices struct {
	wallets.InvoiceService
	current models.Invoice
	actor   string
}

func (f *fakeInvoices) ChangeStatus(_ context.Context, actor string, id int, change models.StatusChange) (models.Invoice, error) {
	f.actor = actor
	if err := workflow.ValidateInvoiceChange(f.current.Status, change); err != nil {
		return models.Invoice{}, err
	}
	out := f.current
	out.ID = id
	out.Status = change.Status
	out.Remarks = change.Remarks
	return out, nil
}

type response struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	h := Handlers{authSrv: fakeAuth{users: map[string]string{"good": "admin"}}}
	var actor string
	next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		actor = ActorFrom(r.Context())
		rw.WriteHeader(http.StatusNoContent)
	})
	srv := h.AuthMiddleware(next)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		actor  string
	}{
		{name: "no token", setup: func(*http.Request) {}, status: http.StatusUnauthorized},
		{
			name:   "bad cookie",
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "bad"}) },
			status: http.StatusUnauthorized,
		},
		{
			name:   "cookie",
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "good"}) },
			status: http.StatusNoContent,
			actor:  "admin",
		},
		{
			name:   "bearer",
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			status: http.StatusNoContent,
			actor:  "admin",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor = ""
			req := httptest.NewRequest(http.MethodGet, "/api/networks", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.actor, actor)
		})
	}
}

func TestListHandler(t *testing.T) {
	items := make([]models.CryptoNetwork, 0, 12)
	for i := 1; i <= 12; i++ {
		items = append(items, models.CryptoNetwork{ID: i, Name: fmt.Sprintf("net-%02d", i), Status: i%2 == 0})
	}
	fake := &fakeNetworks{items: items}
	handler := list(string(models.ResourceNetworks), fake.List)

	t.Run("query and envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/networks?q=NET&page=2&view=list", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "NET", fake.got.Term)
		assert.Equal(t, 2, fake.got.Page)
		assert.Equal(t, listing.ViewList, fake.got.Mode)

		resp := decode(t, rec)
		var page listing.Page[models.CryptoNetwork]
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.TotalPages)
		assert.Len(t, page.Items, 2)
		assert.True(t, page.HasPrev)
		assert.False(t, page.HasNext)

		cookies := cookieMap(rec)
		assert.Equal(t, "list", cookies["view_networks"].Value)
		assert.NotEmpty(t, cookies["listq_networks"].Value)
	})

	t.Run("changed search resets page", func(t *testing.T) {
		first := httptest.NewRecorder()
		handler(first, httptest.NewRequest(http.MethodGet, "/api/networks?q=net&page=2", nil))
		remembered := cookieMap(first)["listq_networks"]
		require.NotNil(t, remembered)

		req := httptest.NewRequest(http.MethodGet, "/api/networks?q=net&page=2", nil)
		req.AddCookie(remembered)
		handler(httptest.NewRecorder(), req)
		assert.Equal(t, 2, fake.got.Page)

		req = httptest.NewRequest(http.MethodGet, "/api/networks?q=net-1&page=2", nil)
		req.AddCookie(remembered)
		handler(httptest.NewRecorder(), req)
		assert.Equal(t, 1, fake.got.Page)

		req = httptest.NewRequest(http.MethodGet, "/api/networks?q=net&filter=Active&page=2", nil)
		req.AddCookie(remembered)
		handler(httptest.NewRecorder(), req)
		assert.Equal(t, 1, fake.got.Page)
	})

	t.Run("view read from cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/networks", nil)
		req.AddCookie(&http.Cookie{Name: "view_networks", Value: "list"})
		handler(httptest.NewRecorder(), req)
		assert.Equal(t, listing.ViewList, fake.got.Mode)
	})

	t.Run("default view is grid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/networks?filter=Active", nil)
		handler(httptest.NewRecorder(), req)
		assert.Equal(t, listing.ViewGrid, fake.got.Mode)
		assert.Equal(t, []string{"Active"}, fake.got.Filters)
	})
}

func cookieMap(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSendError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &apiclient.ValidationError{StatusCode: 400, Fields: map[string][]string{"Name": {"required"}}}, http.StatusUnprocessableEntity},
		{"remarks", fmt.Errorf("change: %w", models.ErrRemarksRequired), http.StatusBadRequest},
		{"invalid", models.ErrInvalidInput, http.StatusBadRequest},
		{"transition", models.ErrIllegalTransition, http.StatusConflict},
		{"not editable", models.ErrNotEditable, http.StatusConflict},
		{"not found", &apiclient.APIError{StatusCode: http.StatusNotFound, Message: "gone"}, http.StatusNotFound},
		{"no data", models.ErrNoData, http.StatusNotFound},
		{"credentials", models.ErrWrongCredentials, http.StatusUnauthorized},
		{"remote 500", &apiclient.APIError{StatusCode: 500, Message: "boom"}, http.StatusBadGateway},
		{"transport", &apiclient.TransportError{Method: "GET", URL: "/x", Err: errors.New("refused")}, http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SendError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, decode(t, rec).Status)
		})
	}

	t.Run("validation message is first field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SendError(rec, &apiclient.ValidationError{StatusCode: 400, Fields: map[string][]string{
			"Name":   {"Name is required"},
			"Amount": {"Amount must be positive"},
		}})
		assert.Equal(t, "Amount must be positive", decode(t, rec).Message)
	})
}

func invoiceRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Post("/invoices/{id}/status", h.InvoiceStatusHandler)
	return r
}

func TestInvoiceStatusHandler(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "approve with remarks", body: `{"status":"Approved","remarks":"paid"}`, status: http.StatusOK},
		{name: "numeric status", body: `{"status":1,"remarks":"paid"}`, status: http.StatusOK},
		{name: "missing remarks", body: `{"status":"Rejected","remarks":"  "}`, status: http.StatusBadRequest},
		{name: "unknown status", body: `{"status":"Lost","remarks":"x"}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInvoices{current: models.Invoice{Status: models.InvoiceStatusPending}}
			h := Handlers{invoiceSrv: fake}
			req := httptest.NewRequest(http.MethodPost, "/invoices/7/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "admin"))
			rec := httptest.NewRecorder()
			invoiceRouter(h).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin", fake.actor)
			}
		})
	}

	t.Run("bad id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices/abc/status", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		invoiceRouter(Handlers{invoiceSrv: &fakeInvoices{}}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatusesHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/statuses/{domain}", Handlers{}.StatusesHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statuses/invoice", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []statusInfo
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &infos))
	require.Len(t, infos, 4)
	assert.Equal(t, "Pending", infos[0].Label)
	assert.NotEmpty(t, infos[0].Next)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statuses/planets", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecodeBody_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(payloadField, `{"Name":"Tron"}`))
	fw, err := mw.CreateFormFile(fileField, "tron.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/networks", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var in struct{ Name string }
	upload, err := decodeBody(req, &in)
	require.NoError(t, err)
	assert.Equal(t, "Tron", in.Name)
	require.NotNil(t, upload)
	assert.Equal(t, "tron.png", upload.FileName)
	assert.Equal(t, []byte("png-bytes"), upload.Content)
}

func TestDecodeBody_RejectsUnknownContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/networks", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err := decodeBody(req, &struct{}{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestLogoutHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handlers{now: time.Now}.LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
