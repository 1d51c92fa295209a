// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package osm implements the repo.MapExtractor interface by trimming
// local OSM files with the osmconvert tool and downloading extracts
// from an Overpass API server.
package osm

import (
	"context"

	"github.com/momeni/gtfs-bounds/pkg/adapter/osm/osmconvert"
	"github.com/momeni/gtfs-bounds/pkg/adapter/osm/overpass"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
)

// Extractor composes an osmconvert Runner and an Overpass Client.
type Extractor struct {
	runner *osmconvert.Runner
	client *overpass.Client
}

// New instantiates an Extractor.
func New(r *osmconvert.Runner, c *overpass.Client) *Extractor {
	return &Extractor{runner: r, client: c}
}

func (e *Extractor) Trim(ctx context.Context, bbox model.BoundingBox, input, output string) error {
	return e.runner.Trim(ctx, bbox, input, output)
}

func (e *Extractor) Download(ctx context.Context, bbox model.BoundingBox, output string) error {
	return e.client.Download(ctx, bbox, output)
}

// MapURL returns the Overpass URL which Download fetches for bbox.
func (e *Extractor) MapURL(bbox model.BoundingBox) string {
	return e.client.MapURL(bbox)
}
