// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/dockerclean/internal/docker"
	"github.com/juju/dockerclean/internal/duration"
	"github.com/juju/dockerclean/internal/osenv"
	"github.com/juju/dockerclean/internal/pruner"
)

var cleanDoc = `
dockerclean removes docker artifacts that have outlived the grace
period: containers that stopped before the period began, the untagged
images no remaining container ancestry needs, idle networks, and the
dangling volumes whose names look generated. With --aggressive, tagged
images and named dangling volumes are fair game too.

The grace period is given in whole minutes or hours, such as 90m or
24h, and defaults to $GRACE_PERIOD (720h when that is unset). Setting
$AGGRESSIVE to any non-empty value turns aggressive mode on.
`

// cleanCommand prunes containers, images, networks and volumes, in
// that order, stopping at the first failure.
type cleanCommand struct {
	cmd.CommandBase
	log cmd.Log

	gracePeriod string
	aggressive  bool

	grace  time.Duration
	client pruner.Client
}

func newCleanCommand() cmd.Command {
	return &cleanCommand{}
}

func (c *cleanCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "dockerclean",
		Purpose: "carefully remove unused docker artifacts",
		Doc:     cleanDoc,
	}
}

func (c *cleanCommand) SetFlags(f *gnuflag.FlagSet) {
	c.log.AddFlags(f)
	f.StringVar(&c.gracePeriod, "g", osenv.GracePeriod(), "how old an artifact must be before it is pruned")
	f.StringVar(&c.gracePeriod, "grace-period", osenv.GracePeriod(), "")
	f.BoolVar(&c.aggressive, "a", osenv.Aggressive(), "also prune tagged images and named dangling volumes")
	f.BoolVar(&c.aggressive, "aggressive", osenv.Aggressive(), "")
}

func (c *cleanCommand) Init(args []string) error {
	grace, err := duration.Parse(c.gracePeriod)
	if err != nil {
		return errors.Annotate(err, "grace period")
	}
	c.grace = grace
	return cmd.CheckEmpty(args)
}

func (c *cleanCommand) Run(ctx *cmd.Context) error {
	if err := c.log.Start(ctx); err != nil {
		return errors.Trace(err)
	}

	client := c.client
	if client == nil {
		client = docker.NewClient(docker.NewRunner(clock.WallClock))
	}
	p, err := pruner.New(pruner.Config{
		Client:     client,
		Clock:      clock.WallClock,
		Grace:      c.grace,
		Aggressive: c.aggressive,
	})
	if err != nil {
		return errors.Trace(err)
	}

	steps := []struct {
		name  string
		prune func() ([]string, error)
	}{
		{"containers", p.PruneContainers},
		{"images", p.PruneImages},
		{"networks", p.PruneNetworks},
		{"volumes", p.PruneVolumes},
	}
	for i, step := range steps {
		fmt.Fprintf(ctx.Stdout, "(%d/%d) Pruning %s... ", i+1, len(steps), step.name)
		removed, err := step.prune()
		if err != nil {
			fmt.Fprintln(ctx.Stdout)
			return errors.Annotatef(err, "pruning %s", step.name)
		}
		fmt.Fprintf(ctx.Stdout, "%d pruned.\n", len(removed))
	}
	return nil
}
