// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the recorded bounds reports",
	Long: `List the most recent bounds reports which were recorded by the
--record flag or by the REST API, newest first.`,
	Args:    cobra.NoArgs,
	PreRunE: checkFormat,
	RunE:    listHistory,
}

func listHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	uc, closePool, err := newUseCase(ctx, true)
	if err != nil {
		return err
	}
	defer closePool()
	reports, err := uc.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		fmt.Fprintf(
			w, "%s %s %v\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Sources,
		)
		fmt.Fprintln(w, "  Bounds are", r.Bounds)
		if r.Buffered != nil {
			fmt.Fprintln(w, "  Buffered Bounds are", *r.Buffered)
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().IntVarP(
		&historyLimit, "limit", "n", 10, "maximum number of reports",
	)
	historyCmd.Flags().StringVar(&format, "format", "text", "output format, text or json")
	rootCmd.AddCommand(historyCmd)
}
