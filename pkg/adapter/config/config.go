// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the gtfsbounds command to
// instantiate different components, from the adapter or use cases
// layers, using those loaded configuration settings.
// All settings are optional, so the command can run without any config
// file, and missing items take their default values during the
// ValidateAndNormalize method. Components receive the validated
// settings as individual params (for the mandatory items) and as a
// series of functional options (for the optional items).
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/momeni/gtfs-bounds/pkg/adapter/config/settings"
	"github.com/momeni/gtfs-bounds/pkg/adapter/db/postgres"
	"github.com/momeni/gtfs-bounds/pkg/adapter/db/postgres/boundsrp"
	"github.com/momeni/gtfs-bounds/pkg/adapter/gtfs/gtfszip"
	"github.com/momeni/gtfs-bounds/pkg/adapter/osm"
	"github.com/momeni/gtfs-bounds/pkg/adapter/osm/osmconvert"
	"github.com/momeni/gtfs-bounds/pkg/adapter/osm/overpass"
	"github.com/momeni/gtfs-bounds/pkg/adapter/restful/gin"
	"github.com/momeni/gtfs-bounds/pkg/core/log"
	"github.com/momeni/gtfs-bounds/pkg/core/repo"
	"github.com/momeni/gtfs-bounds/pkg/core/usecase/boundsuc"
	"gopkg.in/yaml.v3"
)

// DatabaseURLEnv is the environment variable which provides the
// database URL when the config file does not set it.
const DatabaseURLEnv = "DATABASE_URL"

// These are the default values of the optional settings.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultAddress       = "localhost:8080"
	DefaultMaxUploadSize = 64 << 20
)

// MinTimeout and MaxTimeout bound the Overpass.Timeout setting.
var (
	MinTimeout = settings.Duration(time.Second)
	MaxTimeout = settings.Duration(24 * time.Hour)
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases.
type Config struct {
	Overpass   Overpass   `yaml:"overpass"`
	OSMConvert OSMConvert `yaml:"osmconvert"`
	Log        Log        `yaml:"log"`
	Database   Database   `yaml:"database"`
	Gin        Gin        `yaml:"gin"`
}

// Overpass contains the Overpass API client settings.
type Overpass struct {
	URL       *string            `yaml:"url" validate:"omitempty,url"`
	Timeout   *settings.Duration `yaml:"timeout"`
	UserAgent *string            `yaml:"user-agent" validate:"omitempty,printascii"`
}

// NewClient instantiates an Overpass API client.
func (o Overpass) NewClient() (*overpass.Client, error) {
	return overpass.New(*o.URL, time.Duration(*o.Timeout), *o.UserAgent)
}

// OSMConvert contains the osmconvert tool settings.
type OSMConvert struct {
	// Path of the osmconvert executable, either absolute or a name
	// which is looked up in the PATH environment variable.
	Path *string `yaml:"path"`
}

// Log contains the logging settings.
type Log struct {
	Level  *string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format *string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Setup installs the default slog logger, writing to w.
func (l Log) Setup(w io.Writer) error {
	return log.Setup(w, *l.Level, *l.Format)
}

// Database contains the PostgreSQL connection settings, used for
// recording the history of computed reports.
type Database struct {
	// URL may be a postgres:// URL or a key=value connection string.
	// An empty URL disables the history features.
	URL string `yaml:"url"`
}

// Configured returns true if a database URL is known.
func (d Database) Configured() bool {
	return d.URL != ""
}

// ConnectionPool creates a database connection pool.
func (d Database) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	if !d.Configured() {
		return nil, fmt.Errorf(
			"database url is not configured, set database.url or %s",
			DatabaseURLEnv,
		)
	}
	return postgres.NewPool(ctx, d.URL)
}

// Gin contains the gin-gonic related configuration settings.
type Gin struct {
	Address  *string `yaml:"address" validate:"omitempty,hostname_port"`
	Logger   *bool   `yaml:"logger"`   // whether to use gin.Logger()
	Recovery *bool   `yaml:"recovery"` // whether to use gin.Recovery()

	// MaxUploadSize is the maximum size in bytes of the multipart
	// body which carries the uploaded feeds.
	MaxUploadSize *int64 `yaml:"max-upload-size" validate:"omitempty,gt=0"`
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// NewExtractor instantiates the osmconvert and Overpass based map
// extractor.
func (c *Config) NewExtractor() (*osm.Extractor, error) {
	client, err := c.Overpass.NewClient()
	if err != nil {
		return nil, err
	}
	return osm.New(osmconvert.New(*c.OSMConvert.Path), client), nil
}

// NewUseCase instantiates a bounds use case which reads GTFS zip
// archives and extracts maps with the me extractor (if not nil).
// The history features are enabled only if p is not nil.
func (c *Config) NewUseCase(
	p repo.Pool, me repo.MapExtractor,
) (*boundsuc.UseCase, error) {
	opts := make([]boundsuc.Option, 0, 2)
	if me != nil {
		opts = append(opts, boundsuc.WithMapExtractor(me))
	}
	if p != nil {
		opts = append(opts, boundsuc.WithHistory(p, boundsrp.New()))
	}
	return boundsuc.New(gtfszip.New(), opts...)
}

// Load reads the path configuration file, fills missing settings by
// their defaults, and validates them. An empty path yields the default
// settings. The database URL may also be given by the DATABASE_URL
// environment variable, which is consulted only if the file has no
// database url.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv(DatabaseURLEnv)
	}
	return c, nil
}

// Parse decodes the data YAML document as a Config instance and then
// validates and normalizes it. Unknown fields are rejected in order to
// report the misspelled settings instead of ignoring them silently.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It also replaces the
// missing settings with their default values.
func (c *Config) ValidateAndNormalize() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	settings.OverwriteNil(&c.Overpass.URL, overpass.DefaultURL)
	settings.OverwriteNil(&c.Overpass.Timeout, settings.Duration(overpass.DefaultTimeout))
	settings.OverwriteNil(&c.Overpass.UserAgent, overpass.DefaultUserAgent)
	if err := settings.VerifyRange(
		*c.Overpass.Timeout, MinTimeout, MaxTimeout,
	); err != nil {
		return fmt.Errorf(
			"overpass timeout must be in [%v, %v] range: %w",
			time.Duration(MinTimeout), time.Duration(MaxTimeout), err,
		)
	}
	settings.OverwriteNil(&c.OSMConvert.Path, osmconvert.DefaultPath)
	settings.OverwriteNil(&c.Log.Level, DefaultLogLevel)
	settings.OverwriteNil(&c.Log.Format, DefaultLogFormat)
	settings.OverwriteNil(&c.Gin.Address, DefaultAddress)
	settings.OverwriteNil(&c.Gin.Logger, true)
	settings.OverwriteNil(&c.Gin.Recovery, true)
	settings.OverwriteNil(&c.Gin.MaxUploadSize, DefaultMaxUploadSize)
	return nil
}
