// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"math"
	"strconv"
	"strings"
)

// Coordinate represents a geographical location with a latitude and
// longitude, both in decimal degrees.
type Coordinate struct {
	Lat, Lon float64 // latitude and longitude of the geo-location
}

// Valid returns true if c is a finite coordinate with its latitude in
// [-90, 90] and its longitude in [-180, 180] range.
func (c Coordinate) Valid() bool {
	switch {
	case math.IsNaN(c.Lat) || math.IsNaN(c.Lon):
		return false
	case c.Lat < -90 || c.Lat > 90:
		return false
	case c.Lon < -180 || c.Lon > 180:
		return false
	}
	return true
}

// RawPoint is a stop location exactly as it was read from a feed,
// before parsing its fields. An empty field represents a missing
// column (or a missing value) in the source record.
type RawPoint struct {
	Lat, Lon string
}

// Parse converts the textual latitude and longitude of p into a
// Coordinate. Surrounding white spaces are ignored. The ok result is
// false when either field is missing, is not a number, or falls out of
// the valid latitude/longitude ranges (see Coordinate.Valid).
// Such records are skipped by the Accumulator, so they do not need an
// error for explanation.
func (p RawPoint) Parse() (c Coordinate, ok bool) {
	var err error
	c.Lat, err = strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return Coordinate{}, false
	}
	c.Lon, err = strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return Coordinate{}, false
	}
	if !c.Valid() {
		return Coordinate{}, false
	}
	return c, true
}
