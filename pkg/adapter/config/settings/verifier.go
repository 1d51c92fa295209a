// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import "cmp"

// OutOfRangeError indicates that Value was not in the [Min, Max] range.
type OutOfRangeError[T cmp.Ordered] struct {
	Value, Min, Max T
}

func (e *OutOfRangeError[T]) Error() string {
	if e.Value < e.Min {
		return "value is less than min"
	}
	return "value is greater than max"
}

// VerifyRange returns an *OutOfRangeError if v is not within the
// minb and maxb inclusive boundaries. The v is not modified, so
// callers must reject the invalid setting rather than using it.
func VerifyRange[T cmp.Ordered](v, minb, maxb T) error {
	if v < minb || v > maxb {
		return &OutOfRangeError[T]{Value: v, Min: minb, Max: maxb}
	}
	return nil
}
