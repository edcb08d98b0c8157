package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/filmscout/filmscout/log"
)

// Serve runs the API on addr until ctx is done, then shuts the server down.
func Serve(ctx context.Context, addr string, h *Handler) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     NewRouter(h),
		ReadTimeout: 30 * time.Second,
		// Lookups may wait for a manual login.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("httpapi: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("httpapi: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errs
}
