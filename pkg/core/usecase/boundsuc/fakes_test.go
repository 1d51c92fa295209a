// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boundsuc_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/repo"
)

// fakeStops serves feeds from memory. A feed which is missing from
// the feeds map fails the Check method.
type fakeStops struct {
	feeds   map[string][]model.RawPoint
	readErr map[string]error
	closed  []string
}

func (fs *fakeStops) Check(path string) error {
	if _, ok := fs.feeds[path]; !ok {
		return fmt.Errorf("the GTFS file '%s' doesn't appear to be a zip archive", path)
	}
	return nil
}

func (fs *fakeStops) Open(_ context.Context, path string) (repo.StopRows, error) {
	if err := fs.Check(path); err != nil {
		return nil, err
	}
	return &fakeRows{
		fs: fs, path: path, ps: fs.feeds[path], err: fs.readErr[path],
	}, nil
}

type fakeRows struct {
	fs   *fakeStops
	path string
	ps   []model.RawPoint
	i    int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.ps) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Point() model.RawPoint { return r.ps[r.i-1] }
func (r *fakeRows) Err() error            { return r.err }

func (r *fakeRows) Close() error {
	r.fs.closed = append(r.fs.closed, r.path)
	return nil
}

type extractCall struct {
	op            string
	bbox          model.BoundingBox
	input, output string
}

type fakeExtractor struct {
	calls []extractCall
	err   error
}

func (fe *fakeExtractor) Trim(
	_ context.Context, bbox model.BoundingBox, in, out string,
) error {
	fe.calls = append(fe.calls, extractCall{"trim", bbox, in, out})
	return fe.err
}

func (fe *fakeExtractor) Download(
	_ context.Context, bbox model.BoundingBox, out string,
) error {
	fe.calls = append(fe.calls, extractCall{op: "download", bbox: bbox, output: out})
	return fe.err
}

type fakePool struct{}

func (fakePool) Conn(ctx context.Context, h repo.ConnHandler) error {
	return h(ctx, fakeConn{})
}

type fakeConn struct{}

func (fakeConn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("not supported")
}

func (fakeConn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errors.New("not supported")
}

func (fakeConn) Tx(ctx context.Context, h repo.TxHandler) error {
	return h(ctx, fakeTx{})
}

func (fakeConn) IsConn() {}

type fakeTx struct{ fakeConn }

func (fakeTx) IsTx() {}

type fakeHistory struct {
	saved   []model.SavedReport
	created bool
}

func (fh *fakeHistory) Conn(repo.Conn) repo.HistoryConnQueryer { return fh }
func (fh *fakeHistory) Tx(repo.Tx) repo.HistoryTxQueryer       { return fh }

func (fh *fakeHistory) CreateTable(context.Context) error {
	fh.created = true
	return nil
}

func (fh *fakeHistory) Save(_ context.Context, r *model.Report) (*model.SavedReport, error) {
	sr := model.SavedReport{
		ID:        uuid.New(),
		CreatedAt: time.Date(2024, 1, 1, 0, len(fh.saved), 0, 0, time.UTC),
		Report:    *r,
	}
	fh.saved = append(fh.saved, sr)
	return &sr, nil
}

func (fh *fakeHistory) List(_ context.Context, limit int) ([]model.SavedReport, error) {
	var res []model.SavedReport
	for i := len(fh.saved) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, fh.saved[i])
	}
	return res, nil
}
