// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package osmconvert trims OSM files by running the osmconvert tool.
package osmconvert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/momeni/gtfs-bounds/pkg/adapter/osm/osmfile"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
)

// DefaultPath is the osmconvert executable which is looked up in PATH
// when no explicit path is configured.
const DefaultPath = "osmconvert"

// Runner runs the osmconvert executable.
type Runner struct {
	path string
}

// New instantiates a Runner for the path executable.
// An empty path selects the DefaultPath.
func New(path string) *Runner {
	if path == "" {
		path = DefaultPath
	}
	return &Runner{path: path}
}

// Args returns the osmconvert arguments which copy the bbox region of
// input into output, keeping the ways which cross the region borders.
func Args(bbox model.BoundingBox, input, output string) []string {
	return []string{
		input,
		"-b=" + bbox.OSMArg(),
		"--complete-ways",
		"-o=" + output,
	}
}

// Trim runs osmconvert in order to write the bbox region of the input
// file into output. A non-zero exit status of osmconvert is an error,
// and its standard error output is included in the returned error.
// Killing osmconvert when ctx is canceled is left to exec.CommandContext.
func (r *Runner) Trim(ctx context.Context, bbox model.BoundingBox, input, output string) error {
	return osmfile.Replace(output, func(tmp string) error {
		cmd := exec.CommandContext(ctx, r.path, Args(bbox, input, tmp)...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return fmt.Errorf("running %s: %w", r.path, err)
			}
			return fmt.Errorf("running %s: %w: %s", r.path, err, msg)
		}
		return nil
	})
}
