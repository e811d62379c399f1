// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package duration parses the compact duration syntax used for grace
// periods: an integer followed by a single unit, "m" for minutes or "h"
// for hours.
package duration

import (
	"regexp"
	"strconv"
	"time"

	"github.com/juju/errors"
)

// durationPattern matches the whole value. Combined forms such as
// "1h30m" are not valid.
var durationPattern = regexp.MustCompile(`^(\d+)([mh])$`)

// Parse converts a value such as "90m" or "24h" into a time.Duration.
// Anything else yields an error satisfying errors.IsNotValid.
func Parse(value string) (time.Duration, error) {
	match := durationPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, errors.NotValidf("duration %q", value)
	}
	quantity, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, errors.NotValidf("duration %q", value)
	}
	unit := time.Hour
	if match[2] == "m" {
		unit = time.Minute
	}
	return time.Duration(quantity) * unit, nil
}
