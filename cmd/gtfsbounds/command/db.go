// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/gtfs-bounds/pkg/adapter/config"
	"github.com/momeni/gtfs-bounds/pkg/core/cerr"
	"github.com/momeni/gtfs-bounds/pkg/core/log"
	"github.com/momeni/gtfs-bounds/pkg/core/repo"
	"github.com/momeni/gtfs-bounds/pkg/core/usecase/boundsuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
The database keeps the history of recorded bounds reports and its URL
is read from the config file or the DATABASE_URL environment variable.`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the history table",
	Long: `Create the history table of the recorded bounds reports in
the configured database. Existing tables are kept and only the missing
columns and indices are added to them.`,
	Args: cobra.NoArgs,
	RunE: initDB,
}

func initDB(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	uc, closePool, err := newUseCase(ctx, true)
	if err != nil {
		return err
	}
	defer closePool()
	if err = uc.InitDB(ctx); err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	log.Info(ctx, "history table is ready")
	return nil
}

// newUseCase instantiates the bounds use case based on the cfg
// settings. The history features are enabled if withHistory is true,
// requiring a database to be configured and connected. The returned
// function releases the database connections and must be called even
// if no database was used.
func newUseCase(ctx context.Context, withHistory bool) (
	*boundsuc.UseCase, func(), error,
) {
	me, err := cfg.NewExtractor()
	if err != nil {
		return nil, nil, cerr.BadRequest(err)
	}
	if !withHistory {
		uc, err := cfg.NewUseCase(nil, me)
		if err != nil {
			return nil, nil, err
		}
		return uc, func() {}, nil
	}
	if !cfg.Database.Configured() {
		return nil, nil, cerr.BadRequest(fmt.Errorf(
			"database url is not configured, set it in the config file or the %s environment variable",
			config.DatabaseURLEnv,
		))
	}
	p, err := cfg.Database.ConnectionPool(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating DB pool: %w", err)
	}
	closePool := func() {
		if err := p.Close(); err != nil {
			log.Warn(ctx, "closing DB pool", log.Err("err", err))
		}
	}
	var pool repo.Pool = p
	uc, err := cfg.NewUseCase(pool, me)
	if err != nil {
		closePool()
		return nil, nil, err
	}
	return uc, closePool, nil
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	rootCmd.AddCommand(dbCmd)
}
