// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package boundsrp implements the repo.History interface, keeping the
// computed bounds reports in the feed_bounds PostgreSQL table.
package boundsrp

import (
	"context"

	"github.com/momeni/gtfs-bounds/pkg/adapter/db/postgres"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (h *Repo) Conn(c repo.Conn) repo.HistoryConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Save(ctx context.Context, r *model.Report) (*model.SavedReport, error) {
	return Save(ctx, cq.Conn, r)
}

func (cq connQueryer) List(ctx context.Context, limit int) ([]model.SavedReport, error) {
	return List(ctx, cq.Conn, limit)
}

type txQueryer struct {
	*postgres.Tx
}

func (h *Repo) Tx(tx repo.Tx) repo.HistoryTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Save(ctx context.Context, r *model.Report) (*model.SavedReport, error) {
	return Save(ctx, tq.Tx, r)
}

func (tq txQueryer) List(ctx context.Context, limit int) ([]model.SavedReport, error) {
	return List(ctx, tq.Tx, limit)
}

func (tq txQueryer) CreateTable(ctx context.Context) error {
	return CreateTable(ctx, tq.Tx)
}
