package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"textrec/internal/httpapi"
	"textrec/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve [corpus files...]",
		Short: "Serve recommendations over a JSON HTTP API",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			closer, err := initLogging(cfg, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			c, err := loadCorpus(cfg, args)
			if err != nil {
				return err
			}
			svc := newService(cfg, c)
			timeout := time.Duration(cfg.Server.RequestTimeoutSecs) * time.Second
			srv := &http.Server{
				Addr: cfg.Server.Addr,
				Handler: httpapi.NewRouter(svc, httpapi.Config{
					DefaultTopN:        cfg.Recommender.TopN,
					RequestTimeout:     timeout,
					RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
					CORSOrigins:        cfg.Server.CORSOrigins,
				}),
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      timeout + 5*time.Second,
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.Info().Str("addr", srv.Addr).Int("rows", c.Len()).Msg("http api listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-sigCtx.Done():
			}
			logging.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
