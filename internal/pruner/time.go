// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pruner

import (
	"strings"
	"time"

	"github.com/juju/errors"
)

// networkCreatedLayout matches network creation times, which docker
// renders in Go's default time format. The trailing zone name is
// dropped before parsing.
const networkCreatedLayout = "2006-01-02 15:04:05.999999999 -0700"

// olderThan reports whether the timestamp is strictly earlier than now
// minus the grace period.
func (p *Pruner) olderThan(timestamp string) (bool, error) {
	t, err := parseTimestamp(timestamp)
	if err != nil {
		return false, errors.Trace(err)
	}
	cutoff := p.config.Clock.Now().Add(-p.config.Grace)
	return t.Before(cutoff), nil
}

// parseTimestamp accepts the two timestamp formats the inventory
// queries produce: RFC 3339, and the network inspection variant with a
// trailing zone name.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if i := strings.LastIndex(value, " "); i > 0 {
		if t, err := time.Parse(networkCreatedLayout, value[:i]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NotValidf("timestamp %q", value)
}
