// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package boundsrs realizes the bounds resource, allowing GTFS feeds to
// be uploaded and their stops bounds to be computed by the bounds use
// case. The recorded reports history is served too.
package boundsrs

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/gtfs-bounds/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/gtfs-bounds/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/gtfs-bounds/pkg/core/cerr"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/usecase/boundsuc"
)

// DefaultHistoryLimit is the number of reports which are listed when
// the limit query param is missing.
const DefaultHistoryLimit = 10

type resource struct {
	bounds        *boundsuc.UseCase
	maxUploadSize int64
	metrics       *metrics.Metrics
}

// Register instantiates a resource adapting the bounds use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/gtfsbounds/v1/bounds
//     in order to compute the bounds of the uploaded feeds,
//  2. GET request to /api/gtfsbounds/v1/history
//     in order to list the recorded reports (if history is enabled),
//  3. GET request to /api/gtfsbounds/v1/healthz.
//
// Uploaded bodies larger than maxUploadSize bytes are rejected.
// Computed reports are counted by m.
func Register(
	r *gin.RouterGroup, bounds *boundsuc.UseCase, maxUploadSize int64,
	m *metrics.Metrics,
) {
	rs := &resource{
		bounds:        bounds,
		maxUploadSize: maxUploadSize,
		metrics:       m,
	}
	r.POST("bounds", rs.ComputeBounds)
	if bounds.Recording() {
		r.GET("history", rs.ListHistory)
	}
	r.GET("healthz", rs.Healthz)
}

func (rs *resource) ComputeBounds(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, rs.maxUploadSize)
	req := rs.DserBoundsReq(c)
	if req == nil {
		return
	}
	dir, err := os.MkdirTemp("", "gtfsbounds-upload-")
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	defer os.RemoveAll(dir)

	paths := make([]string, 0, len(req.Feeds))
	names := make([]string, 0, len(req.Feeds))
	pairs := make([]string, 0, 2*len(req.Feeds))
	for _, fh := range req.Feeds {
		p := filepath.Join(dir, uuid.NewString()+".zip")
		if err := c.SaveUploadedFile(fh, p); err != nil {
			serdser.SerErr(c, err)
			return
		}
		paths = append(paths, p)
		names = append(names, fh.Filename)
		pairs = append(pairs, p, fh.Filename)
	}
	hide := strings.NewReplacer(pairs...)

	if err := rs.bounds.Check(paths, boundsuc.Extraction{}); err != nil {
		serdser.SerErr(c, hideTempPaths(err, hide))
		return
	}
	report, err := rs.bounds.Compute(c, req.BufferDegrees, paths...)
	if err != nil {
		if errors.Is(err, model.ErrBoundsNotFound) {
			rs.metrics.ObserveNotFound()
		}
		serdser.SerErr(c, hideTempPaths(err, hide))
		return
	}
	report.Sources = names
	rs.metrics.ObserveReport(report)
	if !req.Record {
		c.JSON(http.StatusOK, report)
		return
	}
	saved, err := rs.bounds.Record(c, report)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// hideTempPaths replaces the uploaded files temporary paths in err
// message by their original file names, keeping its status code.
func hideTempPaths(err error, r *strings.Replacer) error {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return &cerr.Error{
			Err:            errors.New(r.Replace(ce.Err.Error())),
			HTTPStatusCode: ce.HTTPStatusCode,
		}
	}
	return errors.New(r.Replace(err.Error()))
}

func (rs *resource) ListHistory(c *gin.Context) {
	limit := rs.DserHistoryReq(c)
	if limit == 0 {
		return
	}
	reports, err := rs.bounds.History(c, limit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (rs *resource) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
