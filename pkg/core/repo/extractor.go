// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/gtfs-bounds/pkg/core/model"
)

// MapExtractor produces an OSM extract which covers a bounding box.
// Both methods must create the outputPath only if they succeed, and
// they may overwrite it if it exists already. Checking for an existing
// output is the responsibility of the caller.
type MapExtractor interface {
	// Trim cuts bbox out of the inputPath OSM file, keeping the ways
	// which cross the box borders complete.
	Trim(ctx context.Context, bbox model.BoundingBox, inputPath, outputPath string) error

	// Download fetches the bbox map data from a remote service.
	Download(ctx context.Context, bbox model.BoundingBox, outputPath string) error
}
