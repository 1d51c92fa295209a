// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"iter"
)

// ErrBoundsNotFound indicates that no valid stop location was observed,
// so no bounding box could be computed. Callers know which feeds were
// processed, so this error does not repeat them and they should wrap it
// with the relevant context before returning it.
var ErrBoundsNotFound = errors.New("bounds not found")

// span keeps the observed range of values along one axis.
// The n counter distinguishes an empty span from a span whose min and
// max happen to be equal to the zero value.
type span struct {
	min, max float64
	n        int
}

func (s *span) add(v float64) {
	if s.n == 0 || v < s.min {
		s.min = v
	}
	if s.n == 0 || v > s.max {
		s.max = v
	}
	s.n++
}

func (s *span) merge(o span) {
	switch {
	case o.n == 0:
		return
	case s.n == 0:
		*s = o
		return
	}
	s.min = min(s.min, o.min)
	s.max = max(s.max, o.max)
	s.n += o.n
}

// Accumulator reduces a stream of stop records into a BoundingBox.
// Its zero value is ready to be used and represents the empty state
// where no valid record is observed yet.
//
// Malformed records are skipped silently, so one broken stop does not
// abort the processing of its whole feed. Skipped records are only
// counted and may be queried by the Skipped method.
//
// An Accumulator is not safe for concurrent use. Independent streams
// may be reduced by distinct accumulators and then combined by Merge.
type Accumulator struct {
	lat, lon span
	skipped  int
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Observe parses p and extends the accumulated bounds to contain it.
// Records which cannot be parsed (see RawPoint.Parse) are skipped.
func (a *Accumulator) Observe(p RawPoint) {
	c, ok := p.Parse()
	if !ok {
		a.skipped++
		return
	}
	a.lat.add(c.Lat)
	a.lon.add(c.Lon)
}

// ObserveAll calls Observe for all records of the points sequence.
// The sequence is consumed once and may be produced lazily, e.g., by
// streaming the records from an archive. Several feeds can contribute
// to one box by being concatenated in points or by calling ObserveAll
// once per feed.
func (a *Accumulator) ObserveAll(points iter.Seq[RawPoint]) {
	for p := range points {
		a.Observe(p)
	}
}

// Merge extends a in order to include everything which was observed
// by the other accumulator. The result is the same as observing both
// streams of records by a single accumulator.
func (a *Accumulator) Merge(other *Accumulator) {
	a.lat.merge(other.lat)
	a.lon.merge(other.lon)
	a.skipped += other.skipped
}

// Observed returns the number of valid records which were observed.
func (a *Accumulator) Observed() int {
	return min(a.lat.n, a.lon.n)
}

// Skipped returns the number of malformed records which were ignored.
func (a *Accumulator) Skipped() int {
	return a.skipped
}

// Finalize returns the accumulated bounding box. The ErrBoundsNotFound
// is returned if any of the latitude or longitude ranges was never
// updated, i.e., when no valid record was observed.
func (a *Accumulator) Finalize() (BoundingBox, error) {
	if a.lat.n == 0 || a.lon.n == 0 {
		return BoundingBox{}, ErrBoundsNotFound
	}
	return BoundingBox{
		MinLat: a.lat.min,
		MaxLat: a.lat.max,
		MinLon: a.lon.min,
		MaxLon: a.lon.max,
	}, nil
}
