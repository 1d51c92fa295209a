// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// Report describes the outcome of one bounds computation over a series
// of GTFS feeds. The Buffered box is nil unless a non-zero buffer was
// requested, and in that case, it is the Bounds grown by BufferDegrees.
type Report struct {
	Sources  []string `json:"sources"`  // feeds which were processed
	Observed int      `json:"observed"` // number of valid stop records
	Skipped  int      `json:"skipped"`  // number of malformed records

	Bounds        BoundingBox  `json:"bounds"`
	BufferDegrees float64      `json:"buffer_degrees,omitempty"`
	Buffered      *BoundingBox `json:"buffered,omitempty"`
}

// Extent returns the box which should be passed to the map extraction
// tools, that is, the Buffered box if present and the Bounds otherwise.
func (r *Report) Extent() BoundingBox {
	if r.Buffered != nil {
		return *r.Buffered
	}
	return r.Bounds
}

// SavedReport is a Report which is persisted in the history storage.
type SavedReport struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Report
}
