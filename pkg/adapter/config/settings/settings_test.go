// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/gtfs-bounds/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleDuration_Marshal() {
	for _, d := range []time.Duration{
		2*time.Hour + 3*time.Minute, 10 * time.Minute, 90 * time.Second, 0,
	} {
		sd := settings.Duration(d)
		fmt.Println(*sd.Marshal())
	}
	// Output:
	// 2h3m
	// 10m
	// 1m30s
	// 0s
}

func ExampleDuration_MarshalText() {
	s := struct {
		Timeout *settings.Duration `json:"timeout"`
	}{}
	d := settings.Duration(5 * time.Minute)
	s.Timeout = &d
	b, err := json.Marshal(s)
	fmt.Println(err)
	fmt.Println(string(b))
	// Output:
	// <nil>
	// {"timeout":"5m"}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("1h30m")))
	assert.Equal(t, settings.Duration(90*time.Minute), d)
	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Equal(t, settings.Duration(90*time.Minute), d, "kept on errors")
}

func TestVerifyRange(t *testing.T) {
	require.NoError(t, settings.VerifyRange(5, 1, 10))
	require.NoError(t, settings.VerifyRange(1, 1, 10), "boundaries are inclusive")
	require.NoError(t, settings.VerifyRange(10, 1, 10), "boundaries are inclusive")

	err := settings.VerifyRange(20, 1, 10)
	var oor *settings.OutOfRangeError[int]
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, settings.OutOfRangeError[int]{Value: 20, Min: 1, Max: 10}, *oor)
	assert.EqualError(t, err, "value is greater than max")

	d := settings.Duration(time.Millisecond)
	err = settings.VerifyRange(d, settings.Duration(time.Second), settings.Duration(time.Hour))
	assert.EqualError(t, err, "value is less than min")
}

func TestDefaults(t *testing.T) {
	var s *string
	settings.OverwriteNil(&s, "text")
	assert.Equal(t, "text", *s)
	settings.OverwriteNil(&s, "json")
	assert.Equal(t, "text", *s, "non-nil values are kept")
}
