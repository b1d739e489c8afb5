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
	"go.uber.org/zap"

	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages for local preview",
		Long: `serve renders pages on request from the content store. With --watch the
content directory is watched and the store reloads after each change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := a.sources()
			if err != nil {
				return err
			}
			store, err := cms.NewStore(src.content)
			if err != nil {
				return err
			}
			r, err := a.renderer(src.templates)
			if err != nil {
				return err
			}

			cfg := server.Config{
				Address:      a.cfg.Server.Addr,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
				IdleTimeout:  a.cfg.Server.IdleTimeout,
				Store:        store,
				Renderer:     r,
				Static:       src.static,
				BaseURL:      a.cfg.Site.BaseURL,
				Disallow:     a.cfg.Site.Disallow,
				Dev:          a.cfg.Dev,
				Logger:       a.logger.Named("http"),
			}
			if cmd.Flags().Changed("addr") {
				cfg.Address = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				if a.cfg.Paths.Content == "" {
					a.logger.Warn("watch ignored: content is embedded; set paths.content to watch a directory")
				} else {
					w, err := newWatcher(a.cfg.Paths.Content, defaultDebounce, store.Reload, a.logger.Named("watch"))
					if err != nil {
						return err
					}
					defer w.Close()
					go w.Run(ctx)
				}
			}

			return serve(ctx, server.New(cfg), a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload content when files under paths.content change")
	return cmd
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("site listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received; draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
