package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegsv/finkurs/core/logger"
)

// NewRouter builds the standard router for a service: request logging,
// panic recovery, /health, /metrics, and the service's own routes.
func NewRouter(service string, mount func(chi.Router)) chi.Router {
	r := chi.NewRouter()
	r.Use(Recover)
	r.Use(RequestLogger(service))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	mount(r)
	return r
}

// Serve runs the handler until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, service, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.HTTP.Info("listening",
			slog.String("event", "http.listen"),
			slog.String("handler", service),
			slog.String("listen", addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.HTTP.Error("shutdown failed",
			slog.String("event", "http.shutdown"),
			slog.String("handler", service),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.HTTP.Info("stopped",
		slog.String("event", "http.shutdown"),
		slog.String("handler", service),
	)
	return <-errCh
}
