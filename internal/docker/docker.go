// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package docker wraps the docker command line client. It issues the
// list, inspect and remove subcommands the pruning procedures rely on
// and decodes their templated, pipe delimited output into typed
// records.
package docker

import (
	"fmt"
	"strings"
	"time"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

const (
	// Command is the name of the docker client binary, resolved
	// against the PATH at run time.
	Command = "docker"

	// defaultTimeout bounds every docker invocation.
	defaultTimeout = 30 * time.Second
)

var logger = loggo.GetLogger("dockerclean.docker")

// Client runs docker subcommands and decodes their output.
type Client struct {
	executable string
	timeout    time.Duration
	runner     Runner
}

// NewClient returns a Client issuing commands through runner.
func NewClient(runner Runner) *Client {
	return &Client{
		executable: Command,
		timeout:    defaultTimeout,
		runner:     runner,
	}
}

// run executes a docker subcommand in strict mode and returns its
// standard output.
func (c *Client) run(args string) (string, error) {
	command := c.executable + " " + args
	logger.Debugf("running %q", command)
	response, err := c.runner.Run(RunParams{
		Commands:  command,
		Timeout:   c.timeout,
		CheckExit: true,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	logger.Tracef("output: %s", response.Stdout)
	return response.Stdout, nil
}

// runLines runs a docker subcommand and splits its output into lines.
func (c *Client) runLines(args string) ([]string, error) {
	out, err := c.run(args)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return splitLines(out), nil
}

// splitLines splits command output into trimmed lines, yielding nil
// for empty output.
func splitLines(out string) []string {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// RunningContainers returns the identifiers of running containers.
func (c *Client) RunningContainers() (set.Strings, error) {
	lines, err := c.runLines("container ls -q --no-trunc")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return set.NewStrings(lines...), nil
}

// AllContainers returns the identifiers of all containers, running or
// not.
func (c *Client) AllContainers() (set.Strings, error) {
	lines, err := c.runLines("container ls -a -q --no-trunc")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return set.NewStrings(lines...), nil
}

// InspectContainers fetches the completion timestamps of the given
// containers.
func (c *Client) InspectContainers(ids []string) ([]Container, error) {
	lines, err := c.runLines(fmt.Sprintf(
		"container inspect --format '{{.ID}}|{{.State.FinishedAt}}' %s",
		strings.Join(ids, " ")))
	if err != nil {
		return nil, errors.Trace(err)
	}
	records := make([]Container, len(lines))
	for i, line := range lines {
		if records[i], err = parseContainer(line); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return records, nil
}

// RemoveContainers deletes the given containers, unforced, in one
// batched call, and returns the identifiers reported removed.
func (c *Client) RemoveContainers(ids []string) ([]string, error) {
	lines, err := c.runLines("rm " + strings.Join(ids, " "))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lines, nil
}

// AllImages returns the normalized identifiers of all images,
// including intermediate layers.
func (c *Client) AllImages() (set.Strings, error) {
	lines, err := c.runLines("image ls -a -q --no-trunc")
	if err != nil {
		return nil, errors.Trace(err)
	}
	images := set.NewStrings()
	for _, line := range lines {
		images.Add(normalizeID(line))
	}
	return images, nil
}

// ContainerImages returns the normalized identifiers of the images the
// given containers were created from.
func (c *Client) ContainerImages(ids []string) (set.Strings, error) {
	lines, err := c.runLines(fmt.Sprintf(
		"inspect --format '{{.Image}}' %s", strings.Join(ids, " ")))
	if err != nil {
		return nil, errors.Trace(err)
	}
	images := set.NewStrings()
	for _, line := range lines {
		images.Add(normalizeID(line))
	}
	return images, nil
}

// InspectImages fetches the lineage, age and tag details of the given
// images.
func (c *Client) InspectImages(ids []string) ([]Image, error) {
	lines, err := c.runLines(fmt.Sprintf(
		"image inspect --format '{{.ID}}|{{.Parent}}|{{.Created}}|{{.RepoTags}}' %s",
		strings.Join(ids, " ")))
	if err != nil {
		return nil, errors.Trace(err)
	}
	records := make([]Image, len(lines))
	for i, line := range lines {
		if records[i], err = parseImage(line); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return records, nil
}

// RemoveImages force deletes the given images in one batched call and
// returns the removals the call reported, one line per deleted or
// untagged layer.
func (c *Client) RemoveImages(ids []string) ([]string, error) {
	lines, err := c.runLines("rmi -f " + strings.Join(ids, " "))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lines, nil
}

// AllNetworks returns the identifiers of all networks.
func (c *Client) AllNetworks() (set.Strings, error) {
	lines, err := c.runLines("network ls -q --no-trunc")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return set.NewStrings(lines...), nil
}

// InspectNetworks fetches the age, attachment and name details of the
// given networks.
func (c *Client) InspectNetworks(ids []string) ([]Network, error) {
	lines, err := c.runLines(fmt.Sprintf(
		"network inspect --format '{{.ID}}|{{.Created}}|{{.Containers}}|{{.Name}}' %s",
		strings.Join(ids, " ")))
	if err != nil {
		return nil, errors.Trace(err)
	}
	records := make([]Network, len(lines))
	for i, line := range lines {
		if records[i], err = parseNetwork(line); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return records, nil
}

// RemoveNetworks deletes the given networks, unforced, in one batched
// call, and returns the identifiers reported removed.
func (c *Client) RemoveNetworks(ids []string) ([]string, error) {
	lines, err := c.runLines("network rm " + strings.Join(ids, " "))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lines, nil
}

// DanglingVolumes returns the names of volumes not attached to any
// container, as judged by the engine itself.
func (c *Client) DanglingVolumes() (set.Strings, error) {
	lines, err := c.runLines("volume ls -q -f dangling=true")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return set.NewStrings(lines...), nil
}

// InspectVolumes fetches the creation times of the given volumes.
func (c *Client) InspectVolumes(names []string) ([]Volume, error) {
	lines, err := c.runLines(fmt.Sprintf(
		"volume inspect --format '{{.Name}}|{{.CreatedAt}}' %s",
		strings.Join(names, " ")))
	if err != nil {
		return nil, errors.Trace(err)
	}
	records := make([]Volume, len(lines))
	for i, line := range lines {
		if records[i], err = parseVolume(line); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return records, nil
}

// RemoveVolumes force deletes the given volumes in one batched call
// and returns the names reported removed.
func (c *Client) RemoveVolumes(names []string) ([]string, error) {
	lines, err := c.runLines("volume rm -f " + strings.Join(names, " "))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lines, nil
}
