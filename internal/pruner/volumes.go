// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pruner

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/dockerclean/internal/docker"
)

// generatedNameLength is the length of engine generated volume names.
// Names at least this long are treated as anonymous; the inspection
// interface exposes no explicit anonymity marker.
const generatedNameLength = 64

// PruneVolumes deletes dangling volumes older than the grace period,
// returning the names reported removed. Unless aggressive, volumes
// with user assigned names are kept.
func (p *Pruner) PruneVolumes() ([]string, error) {
	dangling, err := p.config.Client.DanglingVolumes()
	if err != nil {
		return nil, errors.Trace(err)
	}
	var records []docker.Volume
	if !dangling.IsEmpty() {
		if records, err = p.config.Client.InspectVolumes(dangling.SortedValues()); err != nil {
			return nil, errors.Trace(err)
		}
	}

	old := set.NewStrings()
	named := set.NewStrings()
	for _, volume := range records {
		isOld, err := p.olderThan(volume.Created)
		if err != nil {
			return nil, errors.Annotatef(err, "volume %s", volume.Name)
		}
		if isOld {
			old.Add(volume.Name)
		}
		if len(volume.Name) < generatedNameLength {
			named.Add(volume.Name)
		}
	}

	toPrune := old
	if !p.config.Aggressive {
		toPrune = toPrune.Difference(named)
	}

	if toPrune.IsEmpty() {
		return nil, nil
	}
	logger.Debugf("pruning volumes %v", toPrune.SortedValues())
	removed, err := p.config.Client.RemoveVolumes(toPrune.SortedValues())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return removed, nil
}
