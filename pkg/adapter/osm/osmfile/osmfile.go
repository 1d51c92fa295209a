// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package osmfile helps the OSM extractors to create their output
// files atomically, so a failed extraction never leaves a truncated
// file behind (or replaces an existing valid file).
package osmfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempSibling returns a unique path in the directory of out which
// keeps the out file extension. The osmconvert tool chooses its output
// format by the file extension, so it must be preserved.
func TempSibling(out string) string {
	dir, base := filepath.Split(out)
	name := fmt.Sprintf(".%s.%s%s", base, uuid.NewString(), filepath.Ext(out))
	return filepath.Join(dir, name)
}

// Replace calls write with a temporary path and renames that path to
// out only if write succeeds. The temporary file is removed otherwise.
func Replace(out string, write func(tmp string) error) error {
	tmp := TempSibling(out)
	if err := write(tmp); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
		return err
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming %q to %q: %w", tmp, out, err)
	}
	return nil
}
