// Package httpserver exposes the back-office JSON API.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Fuonder/bmadsoffice/internal/apiservices"
	"github.com/Fuonder/bmadsoffice/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type Service struct {
	apiSrv http.Server
}

func NewService(addr string, srv *apiservices.APIServices, allowedOrigins []string, gatherer prometheus.Gatherer) (*Service, error) {
	h := NewHandlers(srv)
	r := NewRouterObject(*h, allowedOrigins, gatherer)
	router, err := r.GetRouter()
	if err != nil {
		return nil, err
	}
	return &Service{
		apiSrv: http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("API Listening at", zap.String("Addr", s.apiSrv.Addr))
		errCh <- s.apiSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Log.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.apiSrv.Shutdown(shutdownCtx)
	}
}
