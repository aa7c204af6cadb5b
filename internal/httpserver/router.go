package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type RouterObject struct {
	h              Handlers
	chRouter       chi.Router
	allowedOrigins []string
	gatherer       prometheus.Gatherer
}

func NewRouterObject(h Handlers, allowedOrigins []string, gatherer prometheus.Gatherer) *RouterObject {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &RouterObject{h: h, chRouter: chi.NewRouter(), allowedOrigins: allowedOrigins, gatherer: gatherer}
}

func (r *RouterObject) GetRouter() (chi.Router, error) {
	if r.chRouter == nil {
		return nil, fmt.Errorf("router not initialized")
	}
	logger.Log.Debug("Configuring Router")
	h := r.h

	r.chRouter.Use(middleware.RequestID)
	r.chRouter.Use(middleware.RealIP)
	r.chRouter.Use(logger.Middleware)
	r.chRouter.Use(middleware.Recoverer)
	if len(r.allowedOrigins) > 0 {
		r.chRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.chRouter.Get("/ping", h.PingHandler)
	r.chRouter.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))

	r.chRouter.Route("/api", func(router chi.Router) {
		router.Route("/admin", func(router chi.Router) {
			router.Post("/login", h.LoginHandler)
			router.Post("/logout", h.LogoutHandler)
		})

		router.Group(func(router chi.Router) {
			router.Use(h.AuthMiddleware)

			router.Route("/customers", func(router chi.Router) {
				router.Get("/", list(string(models.ResourceCustomers), h.customerSrv.List))
				router.Post("/", create[models.User](h.customerSrv.Create))
				router.Get("/{id}", get(h.customerSrv.Get))
				router.Put("/{id}", update[models.User](h.customerSrv.Update))
				router.Get("/{id}/orders", h.CustomerOrdersHandler)
			})
			router.Route("/orders", func(router chi.Router) {
				router.Get("/", list(string(models.ResourceOrders), h.orderSrv.List))
				router.Post("/", create[models.BMAdsOrder](noUploadCreate(h.orderSrv.Create)))
				router.Get("/timezones", h.TimeZonesHandler)
				router.Get("/{id}", get(h.orderSrv.Get))
				router.Put("/{id}", update[models.BMAdsOrder](noUploadUpdate(h.orderSrv.Update)))
			})
			router.Route("/networks", func(router chi.Router) {
				router.Get("/", list(string(models.ResourceNetworks), h.networkSrv.List))
				router.Post("/", create[models.CryptoNetwork](h.networkSrv.Create))
				router.Get("/{id}", get(h.networkSrv.Get))
				router.Put("/{id}", update[models.CryptoNetwork](h.networkSrv.Update))
			})
			router.Route("/addresses", func(router chi.Router) {
				router.Get("/", list(string(models.ResourceAddresses), h.addressSrv.List))
				router.Post("/", create[models.CryptoAddress](noUploadCreate(h.addressSrv.Create)))
				router.Get("/{id}", get(h.addressSrv.Get))
				router.Put("/{id}", update[models.CryptoAddress](noUploadUpdate(h.addressSrv.Update)))
			})
			router.Route("/invoices", func(router chi.Router) {
				router.Get("/", list(string(models.ResourceInvoices), h.invoiceSrv.List))
				router.Post("/", create[models.Invoice](h.invoiceSrv.Create))
				router.Get("/next-number", h.NextInvoiceHandler)
				router.Get("/{id}", get(h.invoiceSrv.Get))
				router.Put("/{id}", update[models.Invoice](h.invoiceSrv.Update))
				router.Post("/{id}/status", h.InvoiceStatusHandler)
			})
			router.Route("/shared", func(router chi.Router) {
				router.Get("/", list(string(models.ResourceShared), h.sharedSrv.List))
				router.Get("/{id}", get(h.sharedSrv.Get))
				router.Put("/{id}", update[models.SharedBM](noUploadUpdate(h.sharedSrv.Update)))
			})
			router.Get("/statuses/{domain}", h.StatusesHandler)
			router.Get("/audit", h.AuditHandler)
		})
	})
	logger.Log.Info("Successfully initialized Router")
	return r.chRouter, nil
}
