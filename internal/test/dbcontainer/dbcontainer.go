// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// This packages facilitates creation of a temporary postgres:16
// container and connecting to it, using a *postgres.Pool connection
// pool. It may be used in all integration-level test suites which
// require a real PostgreSQL DBMS server.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/gtfs-bounds/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
)

// dockerSocket is the default docker daemon socket which is used when
// the DOCKER_HOST environment variable is not set.
const dockerSocket = "/var/run/docker.sock"

// Available reports if a container runtime seems to be reachable.
// Either the DOCKER_HOST environment variable should be initialized
// (e.g., DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock for
// a podman.service) or the default docker socket must exist.
func Available() bool {
	if os.Getenv("DOCKER_HOST") != "" {
		return true
	}
	_, err := os.Stat(dockerSocket)
	return err == nil
}

// New creates and starts up a postgres container. The test is skipped
// if no container runtime is Available.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
// Caller must run the returned dfrs functions (in order) when the
// container is not needed anymore, even if ok is false.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	if !Available() {
		t.Skip("no container runtime; set DOCKER_HOST to run DB tests")
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dbmsVer := "16"
	pg, err := sqltestutil.StartPostgresContainer(ctx2, dbmsVer)
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	u := pg.ConnectionString()
	for pool == nil {
		pool, err = postgres.NewPool(ctx2, u)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "57P03" {
			continue // the database system is starting up
		}
		var netErr net.Error
		if ctx2.Err() == nil && errors.As(err, &netErr) {
			continue // tolerate network errors until a timeout
		}
		ok = assert.NoError(t, err, "cannot connect to test database")
		if !ok {
			return
		}
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}
