package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Fuonder/bmadsoffice/internal/addresses"
	"github.com/Fuonder/bmadsoffice/internal/apiservices"
	"github.com/Fuonder/bmadsoffice/internal/auth"
	"github.com/Fuonder/bmadsoffice/internal/customers"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/networks"
	"github.com/Fuonder/bmadsoffice/internal/orders"
	"github.com/Fuonder/bmadsoffice/internal/sharing"
	"github.com/Fuonder/bmadsoffice/internal/storage"
	"github.com/Fuonder/bmadsoffice/internal/wallets"
	"github.com/Fuonder/bmadsoffice/internal/workflow"
)

const requestTimeout = 10 * time.Second

type Handlers struct {
	customerSrv customers.CustomerService
	orderSrv    orders.OrderService
	networkSrv  networks.NetworkService
	addressSrv  addresses.AddressService
	invoiceSrv  wallets.InvoiceService
	sharedSrv   sharing.SharedService
	authSrv     auth.AuthService
	audit       storage.AuditReader
	now         func() time.Time
}

func NewHandlers(s *apiservices.APIServices) *Handlers {
	return &Handlers{
		customerSrv: s.CustomerSrv,
		orderSrv:    s.OrderSrv,
		networkSrv:  s.NetworkSrv,
		addressSrv:  s.AddressSrv,
		invoiceSrv:  s.InvoiceSrv,
		sharedSrv:   s.SharedSrv,
		authSrv:     s.AuthSrv,
		audit:       s.Audit,
		now:         time.Now,
	}
}

func (h Handlers) PingHandler(rw http.ResponseWriter, r *http.Request) {
	SendJSON(rw, http.StatusOK, "pong", nil)
}

func (h Handlers) LoginHandler(rw http.ResponseWriter, r *http.Request) {
	logger.Log.Debug("LoginHandler called")
	var creds models.AdminCredentials
	if _, err := decodeBody(r, &creds); err != nil {
		SendError(rw, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	token, err := h.authSrv.Login(ctx, creds)
	if err != nil {
		SendError(rw, err)
		return
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	SendJSON(rw, http.StatusOK, "Admin login success", nil)
}

func (h Handlers) LogoutHandler(rw http.ResponseWriter, r *http.Request) {
	http.SetCookie(rw, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
	SendJSON(rw, http.StatusOK, "Logged out", nil)
}

// list serves a listing page of one resource.
func list[T any](resource string, fn func(context.Context, listing.Query) (listing.Page[T], error)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		q := parseListQuery(rw, r, resource)
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		page, err := fn(ctx, q)
		if err != nil {
			SendError(rw, err)
			return
		}
		SendJSON(rw, http.StatusOK, "", page)
	}
}

// get serves one record by its {id}.
func get[T any](fn func(context.Context, int) (T, error)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			SendError(rw, err)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		rec, err := fn(ctx, id)
		if err != nil {
			SendError(rw, err)
			return
		}
		SendJSON(rw, http.StatusOK, "", rec)
	}
}

type createFunc[T any] func(ctx context.Context, actor string, in T, upload *models.Upload) (T, error)
type updateFunc[T any] func(ctx context.Context, actor string, id int, in T, upload *models.Upload) (T, error)

func create[T any](fn createFunc[T]) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var in T
		upload, err := decodeBody(r, &in)
		if err != nil {
			SendError(rw, err)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		out, err := fn(ctx, ActorFrom(r.Context()), in, upload)
		if err != nil {
			SendError(rw, err)
			return
		}
		SendJSON(rw, http.StatusCreated, "Data saved successfully", out)
	}
}

func update[T any](fn updateFunc[T]) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			SendError(rw, err)
			return
		}
		var in T
		upload, err := decodeBody(r, &in)
		if err != nil {
			SendError(rw, err)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		out, err := fn(ctx, ActorFrom(r.Context()), id, in, upload)
		if err != nil {
			SendError(rw, err)
			return
		}
		SendJSON(rw, http.StatusOK, "Data updated successfully", out)
	}
}

// noUpload adapts services whose forms carry no file.
func noUploadCreate[T any](fn func(context.Context, string, T) (T, error)) createFunc[T] {
	return func(ctx context.Context, actor string, in T, _ *models.Upload) (T, error) {
		return fn(ctx, actor, in)
	}
}

func noUploadUpdate[T any](fn func(context.Context, string, int, T) (T, error)) updateFunc[T] {
	return func(ctx context.Context, actor string, id int, in T, _ *models.Upload) (T, error) {
		return fn(ctx, actor, id, in)
	}
}

func (h Handlers) CustomerOrdersHandler(rw http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		SendError(rw, err)
		return
	}
	list("customer_orders", func(ctx context.Context, q listing.Query) (listing.Page[models.BMAdsOrder], error) {
		return h.customerSrv.Orders(ctx, id, q)
	})(rw, r)
}

func (h Handlers) TimeZonesHandler(rw http.ResponseWriter, r *http.Request) {
	SendJSON(rw, http.StatusOK, "", h.orderSrv.TimeZones(h.now()))
}

func (h Handlers) NextInvoiceHandler(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	draft, err := h.invoiceSrv.Draft(ctx, h.now())
	if err != nil {
		SendError(rw, err)
		return
	}
	SendJSON(rw, http.StatusOK, "", draft)
}

type statusRequest struct {
	Status  json.RawMessage `json:"status"`
	Remarks string          `json:"remarks"`
}

func (h Handlers) InvoiceStatusHandler(rw http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		SendError(rw, err)
		return
	}
	var req statusRequest
	if _, err := decodeBody(r, &req); err != nil {
		SendError(rw, err)
		return
	}
	status, ok := models.ParseInvoiceStatus(strings.Trim(string(req.Status), `"`))
	if !ok {
		SendJSON(rw, http.StatusBadRequest, "unknown invoice status", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	inv, err := h.invoiceSrv.ChangeStatus(ctx, ActorFrom(r.Context()), id, models.StatusChange{
		Status:  status,
		Remarks: req.Remarks,
	})
	if err != nil {
		SendError(rw, err)
		return
	}
	SendJSON(rw, http.StatusOK, "Invoice status updated", inv)
}

type statusInfo struct {
	models.StatusLabel
	Next []string `json:"next"`
}

func (h Handlers) StatusesHandler(rw http.ResponseWriter, r *http.Request) {
	var out []statusInfo
	switch chi.URLParam(r, "domain") {
	case "invoice":
		for _, st := range models.InvoiceStatuses() {
			info := statusInfo{StatusLabel: models.InvoiceStatusLabel(st), Next: []string{}}
			for _, n := range workflow.Invoice.Next(st) {
				info.Next = append(info.Next, n.String())
			}
			out = append(out, info)
		}
	case "order":
		for _, st := range models.OrderStatuses() {
			out = append(out, statusInfo{StatusLabel: models.OrderStatusLabel(st), Next: orEmpty(workflow.Order.Next(st))})
		}
	case "shared":
		for _, st := range models.SharedStatuses() {
			out = append(out, statusInfo{StatusLabel: models.SharedStatusLabel(st), Next: orEmpty(workflow.Shared.Next(st))})
		}
	case "usertype":
		for _, t := range []models.UserType{models.UserTypeReseller, models.UserTypeCustomer} {
			out = append(out, statusInfo{
				StatusLabel: models.StatusLabel{Value: strconv.Itoa(int(t)), Label: t.String()},
				Next:        []string{},
			})
		}
	default:
		SendJSON(rw, http.StatusNotFound, "unknown status domain", nil)
		return
	}
	SendJSON(rw, http.StatusOK, "", out)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (h Handlers) AuditHandler(rw http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	recordID, _ := strconv.Atoi(v.Get("record"))
	limit, _ := strconv.Atoi(v.Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	entries, err := h.audit.ListAudit(ctx, storage.AuditFilter{
		Resource: models.Resource(v.Get("resource")),
		RecordID: recordID,
		Limit:    limit,
	})
	if err != nil {
		SendError(rw, err)
		return
	}
	SendJSON(rw, http.StatusOK, "", entries)
}

type ctxKey struct{}

// ActorFrom returns the administrator the request was authenticated as.
func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

func (h Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(auth.CookieName); err == nil {
			token = cookie.Value
		} else if bearer := r.Header.Get("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
			token = strings.TrimPrefix(bearer, "Bearer ")
		}
		if token == "" {
			SendJSON(rw, http.StatusUnauthorized, "Missing or invalid token", nil)
			return
		}
		user, err := h.authSrv.GetUserFromJWT(r.Context(), token)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				SendJSON(rw, http.StatusUnauthorized, "Invalid token", nil)
				return
			}
			SendError(rw, err)
			return
		}
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	})
}
