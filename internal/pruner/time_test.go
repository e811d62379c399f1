// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pruner_test

import (
	"time"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/dockerclean/internal/pruner"
)

type timeSuite struct {
	baseSuite
}

var _ = gc.Suite(&timeSuite{})

func (s *timeSuite) TestOlderThan(c *gc.C) {
	p := s.newPruner(c, false)
	for i, t := range []struct {
		timestamp string
		older     bool
	}{
		{"2024-03-01T10:00:00Z", true},
		{"2024-03-01T11:30:00Z", false},
		// The cutoff itself is not strictly older.
		{"2024-03-01T11:00:00Z", false},
		{"2024-03-01T13:30:00+03:00", true},
		{"2024-03-01 09:00:00.547631948 +0000 UTC", true},
		// A container that never ran reports the zero time.
		{"0001-01-01T00:00:00Z", true},
	} {
		older, err := p.OlderThan(t.timestamp)
		c.Assert(err, jc.ErrorIsNil, gc.Commentf("timestamp %d: %q", i, t.timestamp))
		c.Check(older, gc.Equals, t.older, gc.Commentf("timestamp %d: %q", i, t.timestamp))
	}
}

func (s *timeSuite) TestOlderThanUnparseable(c *gc.C) {
	p := s.newPruner(c, false)
	_, err := p.OlderThan("yesterday")
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, `timestamp "yesterday" not valid`)
}

func (s *timeSuite) TestParseTimestamp(c *gc.C) {
	parsed, err := pruner.ParseTimestamp("2024-03-01T09:00:00.123456789Z")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(parsed, gc.Equals, time.Date(2024, 3, 1, 9, 0, 0, 123456789, time.UTC))
}

func (s *timeSuite) TestParseTimestampEngineFormat(c *gc.C) {
	parsed, err := pruner.ParseTimestamp("2024-03-01 10:00:00.547631948 +0200 CEST")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(parsed.UTC(), gc.Equals, time.Date(2024, 3, 1, 8, 0, 0, 547631948, time.UTC))
}

func (s *timeSuite) TestParseTimestampEngineFormatNoFraction(c *gc.C) {
	parsed, err := pruner.ParseTimestamp("2024-03-01 09:00:00 +0000 UTC")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(parsed.UTC(), gc.Equals, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
}
