// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// their registration on a gin-gonic engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/gtfs-bounds/pkg/adapter/restful/gin/boundsrs"
	"github.com/momeni/gtfs-bounds/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/gtfs-bounds/pkg/core/usecase/boundsuc"
)

// BasePath is the path prefix of all REST APIs.
const BasePath = "/api/gtfsbounds/v1"

// Register instantiates the "resource" structs, from packages which
// are named like boundsrs, in order to adapt the use cases interfaces
// with the REST APIs. These resources are registered as request
// handlers using the e gin-gonic engine instance.
// The uc use case must be created by the caller (see the config
// package) since it depends on the map extractor and the history
// storage settings. Uploaded request bodies are limited to
// maxUploadSize bytes. The Prometheus metrics of the registered APIs
// are served by GET /metrics.
func Register(e *gin.Engine, uc *boundsuc.UseCase, maxUploadSize int64) {
	m := metrics.New()
	m.Register(e)
	r := e.Group(BasePath, m.Middleware())
	boundsrs.Register(r, uc, maxUploadSize, m)
}
