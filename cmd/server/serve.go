package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cropcast/pkg/form"
	healthCtrlImp "cropcast/pkg/health/controllerImp"
	forecastCtrlImp "cropcast/pkg/prediction/controllerImp"
	"cropcast/pkg/view"
	"cropcast/router"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the forecast web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	d, err := a.wire(ctx)
	if err != nil {
		return err
	}
	html, err := view.NewHTML()
	if err != nil {
		return err
	}

	e := echo.New()
	e.Renderer = html
	e.HidePort = true
	store := form.NewStore(d.env, form.DefaultMaxSessions)
	r := router.New(e, a.log,
		forecastCtrlImp.New(d.svc, store, a.log),
		healthCtrlImp.NewHealthCtrl(d.client),
		d.metrics.Handler(),
	)

	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", ":"+a.cfg.Port), zap.String("model", d.client.Model()))
		errc <- r.Start(":" + a.cfg.Port)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}
