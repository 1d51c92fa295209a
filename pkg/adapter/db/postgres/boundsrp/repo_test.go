// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boundsrp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momeni/gtfs-bounds/internal/test/dbcontainer"
	"github.com/momeni/gtfs-bounds/pkg/adapter/db/postgres"
	"github.com/momeni/gtfs-bounds/pkg/adapter/db/postgres/boundsrp"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/repo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HistoryRepoTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pool *postgres.Pool
	Repo *boundsrp.Repo
}

func TestHistoryRepoTestSuite(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	defer func() {
		for i := len(dfrs) - 1; i >= 0; i-- {
			dfrs[i]()
		}
	}()
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &HistoryRepoTestSuite{Ctx: ctx, Pool: pool, Repo: boundsrp.New()})
}

func (hts *HistoryRepoTestSuite) SetupSuite() {
	err := hts.Pool.Conn(hts.Ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return hts.Repo.Tx(tx).CreateTable(ctx)
		})
	})
	hts.Require().NoError(err, "creating %s table", boundsrp.TableName)
}

func (hts *HistoryRepoTestSuite) TestSaveAndList() {
	r := hts.Require()
	bb := model.BoundingBox{MinLat: 43.8, MaxLat: 46.5, MinLon: -123.3, MaxLon: -120.5}
	reports := []model.Report{
		{
			Sources:  []string{"portland.zip"},
			Observed: 3,
			Bounds: model.BoundingBox{
				MinLat: 44.8, MaxLat: 45.5, MinLon: -122.3, MaxLon: -121.5,
			},
		},
		{
			Sources:  []string{"a.zip", "b.zip"},
			Observed: 10,
			Skipped:  2,
			Bounds: model.BoundingBox{
				MinLat: 44.8, MaxLat: 45.5, MinLon: -122.3, MaxLon: -121.5,
			},
			BufferDegrees: 1,
			Buffered:      &bb,
		},
	}
	var saved []model.SavedReport
	err := hts.Pool.Conn(hts.Ctx, func(ctx context.Context, c repo.Conn) error {
		q := hts.Repo.Conn(c)
		for i := range reports {
			sr, err := q.Save(ctx, &reports[i])
			if err != nil {
				return err
			}
			saved = append(saved, *sr)
			time.Sleep(time.Millisecond) // distinct creation times
		}
		return nil
	})
	r.NoError(err)
	r.Len(saved, 2)
	r.NotEqual(saved[0].ID, saved[1].ID)

	var listed []model.SavedReport
	err = hts.Pool.Conn(hts.Ctx, func(ctx context.Context, c repo.Conn) (err error) {
		listed, err = hts.Repo.Conn(c).List(ctx, 2)
		return err
	})
	r.NoError(err)
	r.Len(listed, 2)
	for i, sr := range listed {
		want := saved[len(saved)-1-i]
		r.Equal(want.ID, sr.ID)
		r.True(want.CreatedAt.Equal(sr.CreatedAt), "%v != %v", want.CreatedAt, sr.CreatedAt)
		r.Equal(want.Report, sr.Report)
	}
}

func (hts *HistoryRepoTestSuite) count(ctx context.Context, c repo.Conn) (n int64) {
	rows, err := c.Query(ctx, "SELECT count(*) FROM feed_bounds")
	hts.Require().NoError(err)
	defer rows.Close()
	for rows.Next() {
		hts.Require().NoError(rows.Scan(&n))
	}
	hts.Require().NoError(rows.Err())
	return n
}

func (hts *HistoryRepoTestSuite) TestRollback() {
	boom := errors.New("boom")
	err := hts.Pool.Conn(hts.Ctx, func(ctx context.Context, c repo.Conn) error {
		before := hts.count(ctx, c)
		err := c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			_, err := hts.Repo.Tx(tx).Save(ctx, &model.Report{
				Sources: []string{"rolled-back.zip"},
			})
			hts.Require().NoError(err)
			return boom
		})
		hts.Require().ErrorIs(err, boom)
		hts.Equal(before, hts.count(ctx, c))
		return nil
	})
	require.NoError(hts.T(), err)
}
