// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/momeni/gtfs-bounds/pkg/adapter/restful/gin/routes"
	"github.com/momeni/gtfs-bounds/pkg/core/log"
	"github.com/spf13/cobra"
)

// shutdownTimeout is the time which in-flight requests are given to
// complete after a termination signal.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API server which computes the bounds of the
uploaded GTFS feeds. If a database is configured, the computed reports
may be recorded and the history of recorded reports is served too.
The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: startWebServer,
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	uc, closePool, err := newUseCase(ctx, cfg.Database.Configured())
	if err != nil {
		return err
	}
	defer closePool()

	e := cfg.Gin.NewEngine()
	routes.Register(e, uc, *cfg.Gin.MaxUploadSize)
	srv := &http.Server{
		Addr:              *cfg.Gin.Address,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting REST API server", slog.String("address", srv.Addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err = <-errs:
		return fmt.Errorf("running Gin engine: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutdown signal received")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down the server: %w", err)
	}
	if err = <-errs; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	log.Info(ctx, "server shut down successfully")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
