// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pruner

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/dockerclean/internal/docker"
)

// PruneImages deletes images that are older than the grace period and
// not in the ancestry of any container's image. Unless aggressive,
// only untagged images are deleted. Returns the removals the engine
// reported, one line per deleted or untagged layer.
func (p *Pruner) PruneImages() ([]string, error) {
	allImages, err := p.config.Client.AllImages()
	if err != nil {
		return nil, errors.Trace(err)
	}
	allContainers, err := p.config.Client.AllContainers()
	if err != nil {
		return nil, errors.Trace(err)
	}

	used := set.NewStrings()
	if !allContainers.IsEmpty() {
		if used, err = p.config.Client.ContainerImages(allContainers.SortedValues()); err != nil {
			return nil, errors.Trace(err)
		}
	}

	images := make(map[string]docker.Image)
	if !allImages.IsEmpty() {
		records, err := p.config.Client.InspectImages(allImages.SortedValues())
		if err != nil {
			return nil, errors.Trace(err)
		}
		for _, image := range records {
			images[image.ID] = image
		}
	}

	allUsed, err := markAncestry(used, images)
	if err != nil {
		return nil, errors.Trace(err)
	}

	untagged := set.NewStrings()
	old := set.NewStrings()
	for id, image := range images {
		if image.Tags.IsEmpty() {
			untagged.Add(id)
		}
		isOld, err := p.olderThan(image.Created)
		if err != nil {
			return nil, errors.Annotatef(err, "image %s", id)
		}
		if isOld {
			old.Add(id)
		}
	}

	prunable := old.Difference(allUsed)
	if !p.config.Aggressive {
		prunable = prunable.Intersection(untagged)
	}

	if prunable.IsEmpty() {
		return nil, nil
	}
	logger.Debugf("pruning images %v", prunable.SortedValues())
	removed, err := p.config.Client.RemoveImages(prunable.SortedValues())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return removed, nil
}

// markAncestry walks each used image's parent chain to completion and
// returns the union of everything visited. A chain already visited is
// not walked again.
func markAncestry(used set.Strings, images map[string]docker.Image) (set.Strings, error) {
	marked := set.NewStrings()
	for _, id := range used.SortedValues() {
		image, ok := images[id]
		if !ok {
			return nil, errors.NotFoundf("used image %s", id)
		}
		marked.Add(image.ID)
		for image.Parent != "" && !marked.Contains(image.Parent) {
			parent, ok := images[image.Parent]
			if !ok {
				return nil, errors.NotFoundf("parent image %s of %s", image.Parent, image.ID)
			}
			marked.Add(parent.ID)
			image = parent
		}
	}
	return marked, nil
}
