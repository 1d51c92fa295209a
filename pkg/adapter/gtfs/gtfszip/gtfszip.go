// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gtfszip implements the repo.Stops interface by streaming the
// stops.txt table of GTFS zip archives. Records are decoded one at a
// time, so neither the archive nor its stops table are loaded in the
// memory as a whole.
package gtfszip

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/repo"
)

// StopsFile is the name of the GTFS table which lists the stops.
const StopsFile = "stops.txt"

// ErrNoStops indicates that an archive has no stops.txt entry.
var ErrNoStops = errors.New("no " + StopsFile + " entry")

// cancelCheckInterval is the number of records which are read between
// two consecutive checks of the context cancellation.
const cancelCheckInterval = 1024

// Reader reads GTFS zip archives from the local file system.
type Reader struct{}

// New instantiates a GTFS zip archive Reader.
func New() *Reader {
	return &Reader{}
}

// Check verifies that path is a zip archive containing a stops.txt file.
func (r *Reader) Check(path string) error {
	zr, err := openZip(path)
	if err != nil {
		return err
	}
	defer zr.Close()
	_, err = findStops(path, &zr.Reader)
	return err
}

func openZip(path string) (*zip.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf(
			"the GTFS file '%s' doesn't appear to be a zip archive: %w",
			path, err,
		)
	}
	return zr, nil
}

// findStops looks for the stops.txt entry case-insensitively. An entry
// in the archive root is preferred, but feeds which were zipped with
// their parent directory are accepted too.
func findStops(zipPath string, zr *zip.Reader) (*zip.File, error) {
	var nested *zip.File
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if name == StopsFile {
			return f, nil
		}
		if nested == nil && path.Base(name) == StopsFile && !f.FileInfo().IsDir() {
			nested = f
		}
	}
	if nested != nil {
		return nested, nil
	}
	return nil, fmt.Errorf("the GTFS file '%s' is invalid: %w", zipPath, ErrNoStops)
}

// Open starts reading the stop records of the path archive.
// Returned rows must be closed in order to release the archive.
func (r *Reader) Open(ctx context.Context, path string) (repo.StopRows, error) {
	zr, err := openZip(path)
	if err != nil {
		return nil, err
	}
	f, err := findStops(path, &zr.Reader)
	if err != nil {
		_ = zr.Close()
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("opening %s of %q: %w", f.Name, path, err)
	}
	sr := &rows{ctx: ctx, zr: zr, rc: rc, latIdx: -1, lonIdx: -1}
	sr.cr = csv.NewReader(rc)
	sr.cr.LazyQuotes = true
	sr.cr.FieldsPerRecord = -1
	sr.cr.ReuseRecord = true
	if err := sr.readHeader(); err != nil {
		_ = sr.Close()
		return nil, fmt.Errorf("reading header of %s in %q: %w", f.Name, path, err)
	}
	return sr, nil
}

// rows implements repo.StopRows over a CSV stream.
// Rows with a missing stop_lat or stop_lon column produce empty fields,
// so they are skipped as malformed records by the accumulator.
type rows struct {
	ctx context.Context
	zr  *zip.ReadCloser
	rc  io.ReadCloser
	cr  *csv.Reader

	latIdx, lonIdx int
	cur            model.RawPoint
	n              int
	done           bool
	err            error
}

func (r *rows) readHeader() error {
	header, err := r.cr.Read()
	if errors.Is(err, io.EOF) {
		r.done = true // an empty table has no records at all
		return nil
	}
	if err != nil {
		return err
	}
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "stop_lat":
			r.latIdx = i
		case "stop_lon":
			r.lonIdx = i
		}
	}
	return nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func (r *rows) Next() bool {
	if r.done {
		return false
	}
	r.n++
	if r.n%cancelCheckInterval == 0 {
		if err := r.ctx.Err(); err != nil {
			r.err, r.done = err, true
			return false
		}
	}
	rec, err := r.cr.Read()
	var pe *csv.ParseError
	switch {
	case err == nil:
		r.cur = model.RawPoint{
			Lat: field(rec, r.latIdx),
			Lon: field(rec, r.lonIdx),
		}
	case errors.Is(err, io.EOF):
		r.done = true
		return false
	case errors.As(err, &pe):
		// a malformed row, reported as a point which fails to parse
		r.cur = model.RawPoint{}
	default:
		r.err, r.done = err, true
		return false
	}
	return true
}

func (r *rows) Point() model.RawPoint {
	return r.cur
}

func (r *rows) Err() error {
	return r.err
}

func (r *rows) Close() error {
	r.done = true
	return errors.Join(r.rc.Close(), r.zr.Close())
}
