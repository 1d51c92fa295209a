// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"iter"

	"github.com/momeni/gtfs-bounds/pkg/core/model"
)

// Stops represents a source of stop locations, such as a GTFS archive
// which its stops.txt file lists one stop per record.
type Stops interface {
	// Check verifies that path refers to a readable feed, having a
	// stops table, without reading its records. Returned errors are
	// meant to be shown to the user as a configuration problem.
	Check(path string) error

	// Open starts streaming the stop records of the path feed.
	// Caller must close the returned rows after use.
	Open(ctx context.Context, path string) (StopRows, error)
}

// StopRows iterates over stop records, similar to the Rows interface.
// Records are produced lazily, so the whole stops table is never kept
// in memory. After Next returns false, Err reports the I/O error which
// stopped the iteration, if any.
type StopRows interface {
	Next() bool
	Point() model.RawPoint
	Err() error
	Close() error
}

// Points adapts rows to a single-use sequence, suitable for passing to
// the model.Accumulator.ObserveAll method. The rows.Err should be
// checked after consuming the sequence.
func Points(rows StopRows) iter.Seq[model.RawPoint] {
	return func(yield func(model.RawPoint) bool) {
		for rows.Next() {
			if !yield(rows.Point()) {
				return
			}
		}
	}
}
