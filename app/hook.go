package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// WaitForShutdown blocks until an interrupt arrives, the context is
// cancelled, or the HTTP server fails, then drains in-flight requests.
func (app *App) WaitForShutdown(ctx context.Context, srv *http.Server, errCh <-chan error) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case <-interrupt:
		app.logger.Info("Shutdown signal received")
	case err := <-errCh:
		app.logger.Error("HTTP server failed", "error", err)
	case <-ctx.Done():
		app.logger.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server forced to shutdown", "error", err)
	}
}
