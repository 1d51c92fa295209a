// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package boundsuc contains the bounds UseCase which computes the
// geographical extent of the stops of one or more GTFS feeds.
// Supported use cases are:
//  1. Validating the feeds and extraction options (Check),
//  2. Computing the (possibly buffered) bounds (Compute),
//  3. Trimming or downloading an OSM extract of the bounds (Extract),
//  4. Recording and listing the computed reports (Record, History).
package boundsuc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/momeni/gtfs-bounds/pkg/core/cerr"
	"github.com/momeni/gtfs-bounds/pkg/core/log"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/repo"
)

// ErrNoHistory is returned by the history related methods when the
// UseCase was created without the WithHistory option.
var ErrNoHistory = errors.New("history storage is not configured")

// UseCase represents the bounds use case. It holds the stops source
// (which reads the GTFS feeds) and the optional map extractor and
// history repository.
type UseCase struct {
	stops     repo.Stops
	extractor repo.MapExtractor

	pool    repo.Pool
	history repo.History
}

// New instantiates a bounds use case.
// The stops source is required, while the map extractor and history
// storage are optional and may be passed as functional options.
func New(s repo.Stops, opts ...Option) (*UseCase, error) {
	if s == nil {
		return nil, errors.New("stops source is nil")
	}
	uc := &UseCase{stops: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// Extraction describes what should be done with the computed bounds.
// At most one of InputPath (trimming a local OSM file) and Download
// (fetching from the Overpass API) may be set. Nothing is extracted
// unless OutputPath is set too.
type Extraction struct {
	InputPath  string
	Download   bool
	OutputPath string
	Force      bool // overwrite an existing OutputPath
}

// Requested returns true if e asks for trimming or downloading an OSM
// extract into some output file.
func (e Extraction) Requested() bool {
	return e.OutputPath != "" && (e.InputPath != "" || e.Download)
}

// Check validates feeds and ex before any processing, so a long
// computation does not end in a configuration error. All returned
// errors are either cerr.BadRequest or cerr.Conflict errors.
// An empty feeds slice is valid here, since Compute reports it as
// ErrBoundsNotFound.
func (uc *UseCase) Check(feeds []string, ex Extraction) error {
	for _, f := range feeds {
		if err := uc.stops.Check(f); err != nil {
			return cerr.BadRequest(err)
		}
	}
	if ex.InputPath != "" && ex.Download {
		return cerr.BadRequest(errors.New(
			"an OSM input file and an Overpass download may not be used together",
		))
	}
	if ex.InputPath != "" {
		f, err := os.Open(ex.InputPath)
		if err != nil {
			return cerr.BadRequest(fmt.Errorf(
				"cannot open the input osm file '%s': %w", ex.InputPath, err,
			))
		}
		_ = f.Close()
	}
	if ex.OutputPath != "" && !ex.Force {
		_, err := os.Stat(ex.OutputPath)
		switch {
		case err == nil:
			return cerr.Conflict(fmt.Errorf(
				"output osm file '%s' exists and --force was not used",
				ex.OutputPath,
			))
		case !errors.Is(err, fs.ErrNotExist):
			return cerr.BadRequest(fmt.Errorf(
				"checking output osm file '%s': %w", ex.OutputPath, err,
			))
		}
	}
	return nil
}

// Compute reads the stops of all feeds and returns their bounds report.
// Feeds are processed sequentially, each one by its own accumulator,
// and their boxes are merged. A non-zero bufferDegrees also fills the
// Buffered box of the report. If no valid stop location is found in any
// of the feeds, a cerr.NotFound error wrapping model.ErrBoundsNotFound
// is returned.
func (uc *UseCase) Compute(
	ctx context.Context, bufferDegrees float64, feeds ...string,
) (*model.Report, error) {
	total := model.NewAccumulator()
	for _, f := range feeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acc, err := uc.observe(ctx, f)
		if err != nil {
			return nil, err
		}
		attrs := []slog.Attr{
			slog.String("feed", f),
			slog.Int("observed", acc.Observed()),
			slog.Int("skipped", acc.Skipped()),
		}
		if b, err := acc.Finalize(); err == nil {
			log.Debug(ctx, "feed bounds", append(attrs, log.Bounds("bounds", b))...)
		} else {
			log.Warn(ctx, "feed has no valid stop location", attrs...)
		}
		total.Merge(acc)
	}
	b, err := total.Finalize()
	if err != nil {
		return nil, cerr.NotFound(err)
	}
	r := &model.Report{
		Sources:  feeds,
		Observed: total.Observed(),
		Skipped:  total.Skipped(),
		Bounds:   b,
	}
	if bufferDegrees != 0 {
		bb := b.Buffer(bufferDegrees)
		r.BufferDegrees = bufferDegrees
		r.Buffered = &bb
	}
	return r, nil
}

func (uc *UseCase) observe(ctx context.Context, feed string) (*model.Accumulator, error) {
	rows, err := uc.stops.Open(ctx, feed)
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn(ctx, "closing stops", slog.String("feed", feed), log.Err("err", err))
		}
	}()
	acc := model.NewAccumulator()
	acc.ObserveAll(repo.Points(rows))
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading stops of %q: %w", feed, err)
	}
	return acc, nil
}

// Extract trims or downloads an OSM extract covering the r.Extent box,
// as requested by ex. It does nothing if ex is not Requested. Failures
// of the external tools are returned as cerr.BadGateway errors.
func (uc *UseCase) Extract(ctx context.Context, r *model.Report, ex Extraction) error {
	if !ex.Requested() {
		return nil
	}
	if uc.extractor == nil {
		return errors.New("map extractor is not configured")
	}
	bbox := r.Extent()
	if ex.InputPath != "" {
		log.Info(
			ctx, "trimming osm file",
			slog.String("input", ex.InputPath),
			slog.String("output", ex.OutputPath),
			slog.String("bbox", bbox.OSMArg()),
		)
		err := uc.extractor.Trim(ctx, bbox, ex.InputPath, ex.OutputPath)
		if err != nil {
			return cerr.BadGateway(fmt.Errorf("trimming osm file: %w", err))
		}
		return nil
	}
	err := uc.extractor.Download(ctx, bbox, ex.OutputPath)
	if err != nil {
		return cerr.BadGateway(fmt.Errorf("downloading osm extract: %w", err))
	}
	return nil
}

// Recording returns true if the history storage is configured, so the
// Record and History methods may be used.
func (uc *UseCase) Recording() bool {
	return uc.history != nil
}

// Record stores r in the history storage and returns its saved form.
func (uc *UseCase) Record(ctx context.Context, r *model.Report) (sr *model.SavedReport, err error) {
	if uc.history == nil {
		return nil, ErrNoHistory
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		sr, err = uc.history.Conn(c).Save(ctx, r)
		return err
	})
	if err != nil {
		sr = nil
	}
	return
}

// History returns at most limit recorded reports, most recent first.
func (uc *UseCase) History(ctx context.Context, limit int) (reports []model.SavedReport, err error) {
	if uc.history == nil {
		return nil, ErrNoHistory
	}
	if limit <= 0 {
		return nil, cerr.BadRequest(fmt.Errorf("limit (%d) is not positive", limit))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		reports, err = uc.history.Conn(c).List(ctx, limit)
		return err
	})
	if err != nil {
		reports = nil
	}
	return
}

// InitDB creates the history table in a transaction.
func (uc *UseCase) InitDB(ctx context.Context) error {
	if uc.history == nil {
		return ErrNoHistory
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return uc.history.Tx(tx).CreateTable(ctx)
		})
	})
}
