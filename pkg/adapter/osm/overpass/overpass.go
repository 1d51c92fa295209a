// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package overpass downloads OSM extracts from the map endpoint of an
// Overpass API server.
package overpass

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/momeni/gtfs-bounds/pkg/adapter/osm/osmfile"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
)

// Defaults of the Client settings.
const (
	DefaultURL       = "https://overpass-api.de/api/map"
	DefaultTimeout   = 10 * time.Minute
	DefaultUserAgent = "gtfsbounds/1.0"
)

// Client fetches the OSM map data of bounding boxes.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New instantiates a Client for the baseURL map endpoint. Empty or zero
// arguments select the DefaultURL, DefaultTimeout, and DefaultUserAgent.
func New(baseURL string, timeout time.Duration, userAgent string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid overpass url: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// MapURL returns the URL which serves the OSM data of bbox.
func (c *Client) MapURL(bbox model.BoundingBox) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + "bbox=" + bbox.OSMArg()
}

// Download saves the OSM data of bbox in the output file.
// Responses are requested with gzip transfer compression and they are
// decompressed transparently by the http package. The output file is
// created only after the whole response body is received.
func (c *Client) Download(ctx context.Context, bbox model.BoundingBox, output string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.MapURL(bbox), nil)
	if err != nil {
		return fmt.Errorf("preparing request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting overpass map: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf(
			"overpass responded with %s: %s",
			resp.Status, strings.TrimSpace(string(msg)),
		)
	}
	return osmfile.Replace(output, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			_ = f.Close()
			return fmt.Errorf("receiving overpass map: %w", err)
		}
		return f.Close()
	})
}
