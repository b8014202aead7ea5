package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/api"
)

func (c *cli) serveCmd() *cobra.Command {
	var actAs string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decision API for one tenant, with /metrics",
		Long: "Serves the HTTP API pinned to --tenant. Administration routes are " +
			"mounted when the store is writable (fixture) and answer only when " +
			"--as names an administrator of that tenant.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.tenant == "" {
				return errTenantFlag
			}
			rt := c.rt

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
			mux.Handle("/", pinTenant(c.tenant, actAs, api.New(rt.engine, rt.admin, forge.NewRouter()).Handler()))

			srv := &http.Server{
				Addr:              rt.cfg.Addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				rt.logger.Info("steward: listening",
					slog.String("addr", rt.cfg.Addr),
					slog.String("tenant_id", c.tenant),
					slog.Bool("admin", rt.admin != nil),
					slog.String("as", actAs),
				)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return rt.engine.Stop(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&actAs, "as", "", "user every served request acts as")
	return cmd
}

// pinTenant binds every request to tenantID, and to userID when set, and
// gives it a request memo.
func pinTenant(tenantID, userID string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := steward.WithRequestMemo(steward.WithTenant(r.Context(), tenantID))
		if userID != "" {
			ctx = forge.WithUserID(ctx, userID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
