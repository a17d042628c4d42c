package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// Start runs the HTTP server and the match module until a shutdown signal
// arrives, then drains both.
func (app *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:    app.Cfg.HTTP.Address,
		Handler: app.router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go app.MatchModule.Run(ctx, &wg)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	app.WaitForShutdown(ctx, srv, errCh)

	cancel()
	wg.Wait()
	return app.Close()
}
