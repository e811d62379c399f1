// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pruner

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/dockerclean/internal/docker"
)

// PruneContainers deletes containers that stopped before the grace
// period began, returning the identifiers reported removed. A
// container that never ran reports the zero time as its completion
// timestamp and so is always old enough.
func (p *Pruner) PruneContainers() ([]string, error) {
	running, err := p.config.Client.RunningContainers()
	if err != nil {
		return nil, errors.Trace(err)
	}
	all, err := p.config.Client.AllContainers()
	if err != nil {
		return nil, errors.Trace(err)
	}

	nonRunning := all.Difference(running)
	var records []docker.Container
	if !nonRunning.IsEmpty() {
		if records, err = p.config.Client.InspectContainers(nonRunning.SortedValues()); err != nil {
			return nil, errors.Trace(err)
		}
	}

	toPrune := set.NewStrings()
	for _, container := range records {
		old, err := p.olderThan(container.FinishedAt)
		if err != nil {
			return nil, errors.Annotatef(err, "container %s", container.ID)
		}
		if old {
			toPrune.Add(container.ID)
		}
	}

	if toPrune.IsEmpty() {
		return nil, nil
	}
	logger.Debugf("pruning containers %v", toPrune.SortedValues())
	removed, err := p.config.Client.RemoveContainers(toPrune.SortedValues())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return removed, nil
}
