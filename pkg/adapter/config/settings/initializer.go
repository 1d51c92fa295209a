// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings contains the value types and helper functions which
// are used by the config package in order to decode, default, and
// verify the optional configuration settings. Optional settings are
// kept as pointers, so a missing item can be told apart from a zero
// value which was set explicitly.
package settings

// OverwriteNil makes the (*dst) nil pointer to point to a copy of the
// def default value. Non-nil pointers are left unchanged.
func OverwriteNil[T any](dst **T, def T) {
	if (*dst) != nil {
		return
	}
	(*dst) = &def
}
