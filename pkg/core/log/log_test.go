// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/gtfs-bounds/pkg/core/log"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	r := require.New(t)
	var buf bytes.Buffer
	r.NoError(log.Setup(&buf, "debug", "json"))

	ctx := context.Background()
	b := model.BoundingBox{MinLat: 1, MaxLat: 2, MinLon: 3, MaxLon: 4}
	log.Debug(ctx, "feed bounds", log.Bounds("bounds", b))
	log.Error(ctx, "failed", log.Err("err", errors.New("boom")))

	dec := json.NewDecoder(&buf)
	var rec map[string]any
	r.NoError(dec.Decode(&rec))
	r.Equal("DEBUG", rec["level"])
	r.Equal("feed bounds", rec["msg"])
	r.Equal(map[string]any{
		"min_lat": 1.0, "max_lat": 2.0, "min_lon": 3.0, "max_lon": 4.0,
	}, rec["bounds"])

	rec = nil
	r.NoError(dec.Decode(&rec))
	r.Equal("ERROR", rec["level"])
	r.Equal("boom", rec["err"])
}

func TestSetupLevelFilter(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var buf bytes.Buffer
	require.NoError(t, log.Setup(&buf, "WARN", "text"))
	ctx := context.Background()
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", log.Err("err", nil))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown err=no-error")
}

func TestSetupInvalid(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, log.Setup(&buf, "verbose", "text"))
	assert.Error(t, log.Setup(&buf, "info", "xml"))
}
