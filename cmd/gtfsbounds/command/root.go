// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the gtfsbounds
// program. Commands are organized using the cobra library.
// The root command computes the bounds of the given GTFS feeds and may
// trim or download an OSM extract of that area. The "serve" sub-command
// exposes the same computation as a REST API and the "db" and "history"
// sub-commands manage and query the recorded reports.
//
//	./gtfsbounds [-c config.yaml] [--buffer-degrees D] GTFS_FILE...
//	./gtfsbounds -i input.osm.pbf -o output.osm.pbf GTFS_FILE...
//	./gtfsbounds -d -o output.osm GTFS_FILE...
//	./gtfsbounds serve [-c config.yaml]
//	./gtfsbounds db init [-c config.yaml]
//	./gtfsbounds history [-n 10] [-c config.yaml]
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/momeni/gtfs-bounds/pkg/adapter/config"
	"github.com/momeni/gtfs-bounds/pkg/core/cerr"
	"github.com/momeni/gtfs-bounds/pkg/core/log"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/momeni/gtfs-bounds/pkg/core/usecase/boundsuc"
	"github.com/spf13/cobra"
)

// CautionNote is written to stderr after a successful computation
// because the bounds are not meaningful for feeds which cross the
// antimeridian.
const CautionNote = "Note: please use caution when intepreting these results near longitude +180/-180!"

// NotFoundMessage is printed on stdout when no stop location is found.
const NotFoundMessage = "Sorry, bounds not found."

// errReported indicates that the failure is already reported to the
// user, so Execute should only exit with a non-zero status.
var errReported = errors.New("error is already reported")

var (
	cfgPath string
	cfg     *config.Config

	osmInput      string
	osmOutput     string
	download      bool
	force         bool
	bufferDegrees float64
	format        string
	record        bool
)

var rootCmd = &cobra.Command{
	Use:   "gtfsbounds [flags] [GTFS_FILE...]",
	Short: "Compute the bounding box of the stops of GTFS feeds",
	Long: `Compute the bounding box of the stops of one or more GTFS feeds,
optionally grown by a buffer, and print it as latitude and longitude
ranges. The box may be used to trim an existing OSM file (using the
osmconvert program) or to download an OSM extract from an Overpass API
server, so the map data of a transit agency region can be prepared.
Stops with missing or malformed coordinates are ignored. Without any
GTFS file, there are no stops and so no bounds are reported.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	PreRunE:           checkFeeds,
	RunE:              computeBounds,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// loadConfig loads the optional .env file of the working directory
// and the configuration file and then prepares the default logger,
// so all sub-commands can use the cfg settings. Variables which are
// already set in the environment take precedence over the .env file.
func loadConfig(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cerr.BadRequest(fmt.Errorf("loading .env file: %w", err))
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return cerr.BadRequest(fmt.Errorf("config.Load(%q): %w", cfgPath, err))
	}
	if err := c.Log.Setup(os.Stderr); err != nil {
		return cerr.BadRequest(err)
	}
	cfg = c
	return nil
}

func extraction() boundsuc.Extraction {
	return boundsuc.Extraction{
		InputPath:  osmInput,
		Download:   download,
		OutputPath: osmOutput,
		Force:      force,
	}
}

// checkFormat ensures that the --format flag names a supported
// output format.
func checkFormat(_ *cobra.Command, _ []string) error {
	if format != "text" && format != "json" {
		return cerr.BadRequest(fmt.Errorf(
			"invalid output format %q, use text or json", format,
		))
	}
	return nil
}

func checkFeeds(cmd *cobra.Command, feeds []string) error {
	if err := checkFormat(cmd, feeds); err != nil {
		return err
	}
	uc, closePool, err := newUseCase(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closePool()
	return uc.Check(feeds, extraction())
}

func computeBounds(cmd *cobra.Command, feeds []string) error {
	ctx := cmd.Context()
	uc, closePool, err := newUseCase(ctx, record)
	if err != nil {
		return err
	}
	defer closePool()

	ex := extraction()
	if osmOutput == "" && (osmInput != "" || download) {
		log.Warn(ctx, "no output osm file is given, skipping the extraction")
	}
	r, err := uc.Compute(ctx, bufferDegrees, feeds...)
	if err != nil {
		if errors.Is(err, model.ErrBoundsNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), NotFoundMessage)
			return errReported
		}
		return err
	}
	if err := printReport(cmd.OutOrStdout(), r); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), CautionNote)

	if record {
		sr, err := uc.Record(ctx, r)
		if err != nil {
			return fmt.Errorf("recording the report: %w", err)
		}
		log.Info(ctx, "report is recorded", slog.String("id", sr.ID.String()))
	}
	if ex.Requested() && ex.Download {
		me, err := cfg.NewExtractor()
		if err != nil {
			return err
		}
		fmt.Fprintln(
			cmd.OutOrStdout(),
			"Downloading from the Overpass URL:", me.MapURL(r.Extent()),
		)
	}
	return uc.Extract(ctx, r, ex)
}

func printReport(w io.Writer, r *model.Report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Fprintln(w, "Bounds are", r.Bounds)
	if r.Buffered != nil {
		fmt.Fprintln(w, "Buffered Bounds are", *r.Buffered)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. Configuration errors
// are reported along with the usage of the relevant command. All
// failures exit with the status code of one.
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, errReported):
	case cerr.IsConfig(err):
		fmt.Fprint(os.Stderr, cmd.UsageString())
		fmt.Fprintln(os.Stderr, "ERROR,", errMessage(err))
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

// errMessage returns the message of err without its cerr wrapper.
func errMessage(err error) string {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return ce.Err.Error()
	}
	return err.Error()
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return cerr.BadRequest(err)
	})
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	f := rootCmd.Flags()
	f.StringVarP(&osmInput, "osm-input", "i", "", "input OSM file to be trimmed by osmconvert")
	f.BoolVarP(&download, "download-from-overpass", "d", false, "download the OSM extract from the Overpass API")
	f.StringVarP(&osmOutput, "osm-output", "o", "", "output OSM file path")
	f.BoolVar(&force, "force", false, "overwrite the output OSM file if it exists")
	f.Float64Var(&bufferDegrees, "buffer-degrees", 0, "grow the bounds by this many degrees in all directions")
	f.StringVar(&format, "format", "text", "output format, text or json")
	f.BoolVar(&record, "record", false, "store the report in the history database")
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args or the CONFIG_FILE environment variable. An empty cfgPath
// makes the config.Load to use the default settings.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	cfgPath = os.Getenv("CONFIG_FILE")
}
