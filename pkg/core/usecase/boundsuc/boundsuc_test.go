// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boundsuc_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/momeni/gtfs-bounds/pkg/core/cerr"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/usecase/boundsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStops() *fakeStops {
	return &fakeStops{feeds: map[string][]model.RawPoint{
		"portland.zip": {
			{Lat: "45.0", Lon: "-122.0"},
			{Lat: "45.5", Lon: "-121.5"},
			{Lat: "", Lon: "-150"},
		},
		"salem.zip": {
			{Lat: "44.8", Lon: "-122.3"},
		},
		"empty.zip": {},
		"broken.zip": {
			{Lat: "x", Lon: "y"},
		},
	}}
}

func TestComputeMergesFeeds(t *testing.T) {
	r := require.New(t)
	stops := newStops()
	uc, err := boundsuc.New(stops)
	r.NoError(err)

	rep, err := uc.Compute(context.Background(), 0, "portland.zip", "empty.zip", "salem.zip")
	r.NoError(err)
	r.Equal(&model.Report{
		Sources:  []string{"portland.zip", "empty.zip", "salem.zip"},
		Observed: 3,
		Skipped:  1,
		Bounds: model.BoundingBox{
			MinLat: 44.8, MaxLat: 45.5, MinLon: -122.3, MaxLon: -121.5,
		},
	}, rep)
	r.Equal(rep.Bounds, rep.Extent())
	r.Equal([]string{"portland.zip", "empty.zip", "salem.zip"}, stops.closed)
}

func TestComputeBuffered(t *testing.T) {
	r := require.New(t)
	uc, err := boundsuc.New(newStops())
	r.NoError(err)

	rep, err := uc.Compute(context.Background(), 0.5, "portland.zip")
	r.NoError(err)
	r.Equal(model.BoundingBox{
		MinLat: 45, MaxLat: 45.5, MinLon: -122, MaxLon: -121.5,
	}, rep.Bounds)
	r.Equal(0.5, rep.BufferDegrees)
	r.NotNil(rep.Buffered)
	r.Equal(model.BoundingBox{
		MinLat: 44.5, MaxLat: 46, MinLon: -122.5, MaxLon: -121,
	}, *rep.Buffered)
	r.Equal(*rep.Buffered, rep.Extent())
}

func TestComputeNotFound(t *testing.T) {
	uc, err := boundsuc.New(newStops())
	require.NoError(t, err)

	for _, feeds := range [][]string{
		{"empty.zip"},
		{"broken.zip"},
		{"empty.zip", "broken.zip"},
	} {
		_, err := uc.Compute(context.Background(), 1, feeds...)
		require.ErrorIs(t, err, model.ErrBoundsNotFound, "feeds: %v", feeds)
		assert.Equal(t, http.StatusNotFound, cerr.StatusCode(err))
	}
}

func TestComputeReadError(t *testing.T) {
	stops := newStops()
	ioErr := errors.New("unexpected EOF")
	stops.readErr = map[string]error{"salem.zip": ioErr}
	uc, err := boundsuc.New(stops)
	require.NoError(t, err)

	_, err = uc.Compute(context.Background(), 0, "portland.zip", "salem.zip")
	require.ErrorIs(t, err, ioErr)
	assert.Equal(t, []string{"portland.zip", "salem.zip"}, stops.closed)
}

func TestComputeCanceled(t *testing.T) {
	uc, err := boundsuc.New(newStops())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = uc.Compute(ctx, 0, "portland.zip")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "out.osm")
	require.NoError(t, os.WriteFile(existing, []byte("<osm/>"), 0o644))
	uc, err := boundsuc.New(newStops())
	require.NoError(t, err)

	cases := []struct {
		name   string
		feeds  []string
		ex     boundsuc.Extraction
		status int
	}{
		{"valid", []string{"portland.zip"}, boundsuc.Extraction{}, 0},
		{"no feeds", nil, boundsuc.Extraction{}, 0},
		{"not a zip", []string{"portland.zip", "stops.csv"}, boundsuc.Extraction{}, http.StatusBadRequest},
		{
			"both input and download", []string{"salem.zip"},
			boundsuc.Extraction{InputPath: existing, Download: true},
			http.StatusBadRequest,
		},
		{
			"missing input", []string{"salem.zip"},
			boundsuc.Extraction{InputPath: filepath.Join(dir, "missing.osm")},
			http.StatusBadRequest,
		},
		{
			"existing output", []string{"salem.zip"},
			boundsuc.Extraction{Download: true, OutputPath: existing},
			http.StatusConflict,
		},
		{
			"forced output", []string{"salem.zip"},
			boundsuc.Extraction{Download: true, OutputPath: existing, Force: true},
			0,
		},
		{
			"new output", []string{"salem.zip"},
			boundsuc.Extraction{InputPath: existing, OutputPath: filepath.Join(dir, "new.osm")},
			0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.Check(tc.feeds, tc.ex)
			if tc.status == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.status, cerr.StatusCode(err))
			assert.True(t, cerr.IsConfig(err))
		})
	}
}

func TestCheckExistingOutputMessage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.osm")
	require.NoError(t, os.WriteFile(out, nil, 0o644))
	uc, err := boundsuc.New(newStops())
	require.NoError(t, err)
	err = uc.Check([]string{"salem.zip"}, boundsuc.Extraction{OutputPath: out})
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.EqualError(t, ce.Err, "output osm file '"+out+"' exists and --force was not used")
}

func TestExtract(t *testing.T) {
	r := require.New(t)
	fe := &fakeExtractor{}
	uc, err := boundsuc.New(newStops(), boundsuc.WithMapExtractor(fe))
	r.NoError(err)
	rep, err := uc.Compute(context.Background(), 1, "salem.zip")
	r.NoError(err)

	r.NoError(uc.Extract(context.Background(), rep, boundsuc.Extraction{Download: true}))
	r.NoError(uc.Extract(context.Background(), rep, boundsuc.Extraction{OutputPath: "x.osm"}))
	r.Empty(fe.calls, "nothing is extracted without both of input and output")

	r.NoError(uc.Extract(context.Background(), rep, boundsuc.Extraction{
		InputPath: "in.osm", OutputPath: "out.osm",
	}))
	r.NoError(uc.Extract(context.Background(), rep, boundsuc.Extraction{
		Download: true, OutputPath: "dl.osm",
	}))
	buffered := model.BoundingBox{
		MinLat: 43.8, MaxLat: 45.8, MinLon: -123.3, MaxLon: -121.3,
	}
	r.Equal([]extractCall{
		{"trim", buffered, "in.osm", "out.osm"},
		{"download", buffered, "", "dl.osm"},
	}, fe.calls)

	fe.err = errors.New("exit status 1")
	err = uc.Extract(context.Background(), rep, boundsuc.Extraction{
		InputPath: "in.osm", OutputPath: "out.osm",
	})
	r.ErrorIs(err, fe.err)
	r.Equal(http.StatusBadGateway, cerr.StatusCode(err))
}

func TestExtractWithoutExtractor(t *testing.T) {
	uc, err := boundsuc.New(newStops())
	require.NoError(t, err)
	err = uc.Extract(context.Background(), &model.Report{}, boundsuc.Extraction{
		Download: true, OutputPath: "dl.osm",
	})
	require.Error(t, err)
}

func TestHistory(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	fh := &fakeHistory{}
	uc, err := boundsuc.New(newStops(), boundsuc.WithHistory(fakePool{}, fh))
	r.NoError(err)

	r.NoError(uc.InitDB(ctx))
	r.True(fh.created)

	for _, feed := range []string{"portland.zip", "salem.zip"} {
		rep, err := uc.Compute(ctx, 0, feed)
		r.NoError(err)
		sr, err := uc.Record(ctx, rep)
		r.NoError(err)
		r.Equal(*rep, sr.Report)
	}
	reports, err := uc.History(ctx, 1)
	r.NoError(err)
	r.Len(reports, 1)
	r.Equal([]string{"salem.zip"}, reports[0].Sources)

	_, err = uc.History(ctx, 0)
	r.Equal(http.StatusBadRequest, cerr.StatusCode(err))
}

func TestWithoutHistory(t *testing.T) {
	uc, err := boundsuc.New(newStops())
	require.NoError(t, err)
	ctx := context.Background()
	_, err = uc.Record(ctx, &model.Report{})
	require.ErrorIs(t, err, boundsuc.ErrNoHistory)
	_, err = uc.History(ctx, 10)
	require.ErrorIs(t, err, boundsuc.ErrNoHistory)
	require.ErrorIs(t, uc.InitDB(ctx), boundsuc.ErrNoHistory)
}

func TestNewOptions(t *testing.T) {
	_, err := boundsuc.New(nil)
	require.Error(t, err)

	fe := &fakeExtractor{}
	_, err = boundsuc.New(newStops(),
		boundsuc.WithMapExtractor(fe), boundsuc.WithMapExtractor(fe),
	)
	require.Error(t, err, "extractor may be configured once")

	_, err = boundsuc.New(newStops(), boundsuc.WithHistory(nil, &fakeHistory{}))
	require.Error(t, err)
}
