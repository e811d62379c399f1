// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package pruner implements the four garbage collection passes:
// containers, images, networks and volumes. Each pass fetches a fresh
// inventory, filters it by usage and age, and issues one batched
// deletion for whatever remains. Passes keep no state between runs.
package pruner

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/dockerclean/internal/docker"
)

var logger = loggo.GetLogger("dockerclean.pruner")

// Client is the docker surface the pruning passes consume.
type Client interface {
	RunningContainers() (set.Strings, error)
	AllContainers() (set.Strings, error)
	InspectContainers(ids []string) ([]docker.Container, error)
	RemoveContainers(ids []string) ([]string, error)

	AllImages() (set.Strings, error)
	ContainerImages(ids []string) (set.Strings, error)
	InspectImages(ids []string) ([]docker.Image, error)
	RemoveImages(ids []string) ([]string, error)

	AllNetworks() (set.Strings, error)
	InspectNetworks(ids []string) ([]docker.Network, error)
	RemoveNetworks(ids []string) ([]string, error)

	DanglingVolumes() (set.Strings, error)
	InspectVolumes(names []string) ([]docker.Volume, error)
	RemoveVolumes(names []string) ([]string, error)
}

// Config holds a Pruner's dependencies and policy.
type Config struct {
	// Client is the docker query and deletion surface.
	Client Client

	// Clock supplies "now" for age comparisons.
	Clock clock.Clock

	// Grace is how old an artifact must be before it becomes eligible
	// for deletion.
	Grace time.Duration

	// Aggressive drops the requirement that images be untagged and
	// volumes anonymous before deletion.
	Aggressive bool
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Client == nil {
		return errors.NotValidf("nil Client")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.Grace < 0 {
		return errors.NotValidf("negative Grace")
	}
	return nil
}

// Pruner runs the garbage collection passes.
type Pruner struct {
	config Config
}

// New returns a Pruner using the supplied configuration.
func New(config Config) (*Pruner, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Pruner{config: config}, nil
}
