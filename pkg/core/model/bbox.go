// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// Its central types are the BoundingBox of a set of stop locations and
// the Accumulator which reduces a stream of stop records into such a
// box. Both of them are pure values, performing no I/O at all.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BoundingBox is the minimal latitude/longitude rectangle which
// contains a set of geographical locations.
// A BoundingBox which is returned by the Accumulator.Finalize method
// always has MinLat <= MaxLat and MinLon <= MaxLon. No such guarantee
// holds after a negative Buffer or for manually built instances.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Buffer returns a copy of b which is grown by degrees in all four
// directions. Neither the degrees argument is validated, nor the
// resulting bounds are clamped into the valid latitude and longitude
// ranges, so boxes near the poles or the antimeridian may contain
// out-of-range values afterwards.
func (b BoundingBox) Buffer(degrees float64) BoundingBox {
	b.MinLat -= degrees
	b.MaxLat += degrees
	b.MinLon -= degrees
	b.MaxLon += degrees
	return b
}

// Union returns the smallest box which contains both of b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
		MinLon: math.Min(b.MinLon, other.MinLon),
		MaxLon: math.Max(b.MaxLon, other.MaxLon),
	}
}

// String formats b as "lat: [minLat, maxLat] lon: [minLon, maxLon]".
// The numbers are formatted by FormatDegrees.
func (b BoundingBox) String() string {
	return fmt.Sprintf(
		"lat: [%s, %s] lon: [%s, %s]",
		FormatDegrees(b.MinLat), FormatDegrees(b.MaxLat),
		FormatDegrees(b.MinLon), FormatDegrees(b.MaxLon),
	)
}

// OSMArg formats b as "minLon,minLat,maxLon,maxLat" which is the
// bounding box order expected by osmconvert and the Overpass API
// (that is, longitudes come before latitudes).
func (b BoundingBox) OSMArg() string {
	return strings.Join([]string{
		FormatDegrees(b.MinLon), FormatDegrees(b.MinLat),
		FormatDegrees(b.MaxLon), FormatDegrees(b.MaxLat),
	}, ",")
}

// FormatDegrees returns the shortest decimal representation of v which
// parses back to v. Integral values keep a ".0" suffix, so 45 is shown
// as 45.0 and 1e6 as 1000000.0. Values whose magnitude is below 1e-4
// or at least 1e16 use the exponent notation like 1e-05.
func FormatDegrees(v float64) string {
	fmtc := byte('g')
	if a := math.Abs(v); a == 0 || (a >= 1e-4 && a < 1e16) {
		fmtc = 'f'
	}
	s := strconv.FormatFloat(v, fmtc, -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
