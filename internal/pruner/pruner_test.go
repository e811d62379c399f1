// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package pruner_test

import (
	"strings"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/dockerclean/internal/docker"
	"github.com/juju/dockerclean/internal/pruner"
)

type prunerSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&prunerSuite{})

func (s *prunerSuite) TestNewValidatesConfig(c *gc.C) {
	_, err := pruner.New(pruner.Config{})
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, "nil Client not valid")
}

func (s *prunerSuite) TestConfigValidate(c *gc.C) {
	config := pruner.Config{
		Client: newStubClient(),
		Clock:  testclock.NewClock(testTime),
		Grace:  time.Hour,
	}
	c.Check(config.Validate(), jc.ErrorIsNil)

	missingClock := config
	missingClock.Clock = nil
	c.Check(missingClock.Validate(), gc.ErrorMatches, "nil Clock not valid")

	negativeGrace := config
	negativeGrace.Grace = -time.Minute
	c.Check(negativeGrace.Validate(), gc.ErrorMatches, "negative Grace not valid")
}

func (s *prunerSuite) TestSecondPassFindsNothing(c *gc.C) {
	engine := newFakeEngine()
	engine.addImage("aaaa", "", oldStamp)
	engine.addImage("bbbb", "aaaa", oldStamp)
	engine.addContainer("run1", "aaaa", "", true)
	engine.addContainer("gone1", "bbbb", oldStamp, false)
	engine.addNetwork("net1", "stale", oldStamp)
	engine.addNetwork("net2", "bridge", oldStamp)
	engine.addVolume(strings.Repeat("f", 64), oldStamp)

	p, err := pruner.New(pruner.Config{
		Client: engine,
		Clock:  testclock.NewClock(testTime),
		Grace:  time.Hour,
	})
	c.Assert(err, jc.ErrorIsNil)

	run := func() [4]int {
		var counts [4]int
		removed, err := p.PruneContainers()
		c.Assert(err, jc.ErrorIsNil)
		counts[0] = len(removed)
		removed, err = p.PruneImages()
		c.Assert(err, jc.ErrorIsNil)
		counts[1] = len(removed)
		removed, err = p.PruneNetworks()
		c.Assert(err, jc.ErrorIsNil)
		counts[2] = len(removed)
		removed, err = p.PruneVolumes()
		c.Assert(err, jc.ErrorIsNil)
		counts[3] = len(removed)
		return counts
	}

	c.Check(run(), gc.Equals, [4]int{1, 1, 1, 1})
	c.Check(run(), gc.Equals, [4]int{0, 0, 0, 0})
}

// fakeEngine is a stateful in-memory engine, letting a test observe
// what a second pass sees after the first pass has deleted things.
type fakeEngine struct {
	running        set.Strings
	containers     map[string]docker.Container
	containerImage map[string]string
	images         map[string]docker.Image
	networks       map[string]docker.Network
	volumes        map[string]docker.Volume
}

var _ pruner.Client = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		running:        set.NewStrings(),
		containers:     make(map[string]docker.Container),
		containerImage: make(map[string]string),
		images:         make(map[string]docker.Image),
		networks:       make(map[string]docker.Network),
		volumes:        make(map[string]docker.Volume),
	}
}

func (e *fakeEngine) addContainer(id, imageID, finishedAt string, running bool) {
	e.containers[id] = docker.Container{ID: id, FinishedAt: finishedAt}
	e.containerImage[id] = imageID
	if running {
		e.running.Add(id)
	}
}

func (e *fakeEngine) addImage(id, parent, created string, tags ...string) {
	e.images[id] = docker.Image{
		ID:      id,
		Parent:  parent,
		Created: created,
		Tags:    set.NewStrings(tags...),
	}
}

func (e *fakeEngine) addNetwork(id, name, created string, attached ...string) {
	e.networks[id] = docker.Network{
		ID:       id,
		Created:  created,
		Attached: set.NewStrings(attached...),
		Name:     name,
	}
}

func (e *fakeEngine) addVolume(name, created string) {
	e.volumes[name] = docker.Volume{Name: name, Created: created}
}

func (e *fakeEngine) RunningContainers() (set.Strings, error) {
	return set.NewStrings(e.running.Values()...), nil
}

func (e *fakeEngine) AllContainers() (set.Strings, error) {
	all := set.NewStrings()
	for id := range e.containers {
		all.Add(id)
	}
	return all, nil
}

func (e *fakeEngine) InspectContainers(ids []string) ([]docker.Container, error) {
	records := make([]docker.Container, 0, len(ids))
	for _, id := range ids {
		record, ok := e.containers[id]
		if !ok {
			return nil, errors.NotFoundf("container %s", id)
		}
		records = append(records, record)
	}
	return records, nil
}

func (e *fakeEngine) RemoveContainers(ids []string) ([]string, error) {
	for _, id := range ids {
		delete(e.containers, id)
		delete(e.containerImage, id)
		e.running.Remove(id)
	}
	return ids, nil
}

func (e *fakeEngine) AllImages() (set.Strings, error) {
	images := set.NewStrings()
	for id := range e.images {
		images.Add(id)
	}
	return images, nil
}

func (e *fakeEngine) ContainerImages(ids []string) (set.Strings, error) {
	images := set.NewStrings()
	for _, id := range ids {
		image, ok := e.containerImage[id]
		if !ok {
			return nil, errors.NotFoundf("container %s", id)
		}
		images.Add(image)
	}
	return images, nil
}

func (e *fakeEngine) InspectImages(ids []string) ([]docker.Image, error) {
	records := make([]docker.Image, 0, len(ids))
	for _, id := range ids {
		record, ok := e.images[id]
		if !ok {
			return nil, errors.NotFoundf("image %s", id)
		}
		records = append(records, record)
	}
	return records, nil
}

func (e *fakeEngine) RemoveImages(ids []string) ([]string, error) {
	for _, id := range ids {
		delete(e.images, id)
	}
	return ids, nil
}

func (e *fakeEngine) AllNetworks() (set.Strings, error) {
	networks := set.NewStrings()
	for id := range e.networks {
		networks.Add(id)
	}
	return networks, nil
}

func (e *fakeEngine) InspectNetworks(ids []string) ([]docker.Network, error) {
	records := make([]docker.Network, 0, len(ids))
	for _, id := range ids {
		record, ok := e.networks[id]
		if !ok {
			return nil, errors.NotFoundf("network %s", id)
		}
		records = append(records, record)
	}
	return records, nil
}

func (e *fakeEngine) RemoveNetworks(ids []string) ([]string, error) {
	for _, id := range ids {
		delete(e.networks, id)
	}
	return ids, nil
}

func (e *fakeEngine) DanglingVolumes() (set.Strings, error) {
	volumes := set.NewStrings()
	for name := range e.volumes {
		volumes.Add(name)
	}
	return volumes, nil
}

func (e *fakeEngine) InspectVolumes(names []string) ([]docker.Volume, error) {
	records := make([]docker.Volume, 0, len(names))
	for _, name := range names {
		record, ok := e.volumes[name]
		if !ok {
			return nil, errors.NotFoundf("volume %s", name)
		}
		records = append(records, record)
	}
	return records, nil
}

func (e *fakeEngine) RemoveVolumes(names []string) ([]string, error) {
	for _, name := range names {
		delete(e.volumes, name)
	}
	return names, nil
}
