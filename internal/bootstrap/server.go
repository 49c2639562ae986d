package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joshi-samarth/AirlineManagementSystem/config"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Handler wraps the API router with the CORS policy from config.
func Handler(cfg config.HTTPConfig, router http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
	}).Handler(router)
}

// Run serves router until ctx is canceled or the listener fails, then shuts
// down gracefully.
func Run(ctx context.Context, cfg config.HTTPConfig, router http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           Handler(cfg, router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("address", cfg.Address).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen http %s: %w", cfg.Address, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logrus.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
