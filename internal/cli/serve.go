package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/benchlab/dilute/internal/web"
)

// ServeCmd hosts the web calculator.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides config)."`
}

func (c *ServeCmd) Run(root *CLI) error {
	st, release, err := root.openStore()
	if err != nil {
		return err
	}
	defer release()

	addr := root.cfg.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: web.NewRouter(st),
	}

	go func() {
		<-root.Context().Done()
		slog.Info("shutting down calculator")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("serving dilution calculator", "addr", addr, "db", root.cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
