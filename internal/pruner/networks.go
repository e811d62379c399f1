// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pruner

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/dockerclean/internal/docker"
)

// reservedNetworks are the engine's built in networks, never deleted.
var reservedNetworks = set.NewStrings("bridge", "host", "none")

// PruneNetworks deletes networks older than the grace period that no
// container is attached to, returning the identifiers reported
// removed. The built in networks are always kept.
func (p *Pruner) PruneNetworks() ([]string, error) {
	all, err := p.config.Client.AllNetworks()
	if err != nil {
		return nil, errors.Trace(err)
	}
	var records []docker.Network
	if !all.IsEmpty() {
		if records, err = p.config.Client.InspectNetworks(all.SortedValues()); err != nil {
			return nil, errors.Trace(err)
		}
	}

	used := set.NewStrings()
	old := set.NewStrings()
	reserved := set.NewStrings()
	for _, network := range records {
		if !network.Attached.IsEmpty() {
			used.Add(network.ID)
		}
		isOld, err := p.olderThan(network.Created)
		if err != nil {
			return nil, errors.Annotatef(err, "network %s", network.ID)
		}
		if isOld {
			old.Add(network.ID)
		}
		if reservedNetworks.Contains(network.Name) {
			reserved.Add(network.ID)
		}
	}

	prunable := old.Difference(used).Difference(reserved)
	if prunable.IsEmpty() {
		return nil, nil
	}
	logger.Debugf("pruning networks %v", prunable.SortedValues())
	removed, err := p.config.Client.RemoveNetworks(prunable.SortedValues())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return removed, nil
}
