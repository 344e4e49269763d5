package app

import (
	"errors"
	"fmt"
	"net/http"
)

// serve starts srv in the background and reports unexpected exits on errCh.
func (app *App) serve(srv *http.Server, name string, errCh chan<- error) {
	logger := app.Observability.Provider.Logger
	logger.Info("Starting server", "name", name, "addr", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}()
}
