// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boundsuc

import (
	"errors"

	"github.com/momeni/gtfs-bounds/pkg/core/repo"
)

// Option is a functional option for the bounds use case.
type Option func(uc *UseCase) error

// WithMapExtractor option enables the Extract method, so the computed
// bounds can be used in order to trim or download an OSM extract.
func WithMapExtractor(me repo.MapExtractor) Option {
	return func(uc *UseCase) error {
		if me == nil {
			return errors.New("map extractor is nil")
		}
		if uc.extractor != nil {
			return errors.New("map extractor is already configured")
		}
		uc.extractor = me
		return nil
	}
}

// WithHistory option enables the Record and History methods, storing
// the reports by the h repository in the p database.
func WithHistory(p repo.Pool, h repo.History) Option {
	return func(uc *UseCase) error {
		if p == nil || h == nil {
			return errors.New("history pool and repository are required")
		}
		if uc.history != nil {
			return errors.New("history is already configured")
		}
		uc.pool, uc.history = p, h
		return nil
	}
}
