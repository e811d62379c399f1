// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package docker

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// hashPrefix is the digest algorithm prefix docker attaches to image
// identifiers in some contexts but not others.
const hashPrefix = "sha256:"

// normalizeID strips the digest algorithm prefix from an image
// identifier so that prefixed and bare forms compare equal.
func normalizeID(id string) string {
	return strings.TrimPrefix(id, hashPrefix)
}

// Container is a container inventory record. FinishedAt is the raw
// timestamp text as reported; a container that never ran reports the
// zero time.
type Container struct {
	ID         string
	FinishedAt string
}

// Image is an image inventory record. ID and Parent are normalized; a
// Parent of "" terminates an ancestry chain, and an empty Tags set
// means the image is untagged.
type Image struct {
	ID      string
	Parent  string
	Created string
	Tags    set.Strings
}

// Network is a network inventory record. Attached holds the
// identifiers of the containers connected to the network.
type Network struct {
	ID       string
	Created  string
	Attached set.Strings
	Name     string
}

// Volume is a volume inventory record.
type Volume struct {
	Name    string
	Created string
}

// parseContainer decodes one line of container inspection output.
func parseContainer(line string) (Container, error) {
	fields := strings.Split(line, "|")
	if len(fields) != 2 {
		return Container{}, errors.NotValidf("container record %q", line)
	}
	return Container{
		ID:         fields[0],
		FinishedAt: fields[1],
	}, nil
}

// parseImage decodes one line of image inspection output.
func parseImage(line string) (Image, error) {
	fields := strings.Split(line, "|")
	if len(fields) != 4 {
		return Image{}, errors.NotValidf("image record %q", line)
	}
	tags, err := parseBracketList(fields[3])
	if err != nil {
		return Image{}, errors.Annotatef(err, "image record %q", line)
	}
	return Image{
		ID:      normalizeID(fields[0]),
		Parent:  normalizeID(fields[1]),
		Created: fields[2],
		Tags:    tags,
	}, nil
}

// parseNetwork decodes one line of network inspection output.
func parseNetwork(line string) (Network, error) {
	fields := strings.Split(line, "|")
	if len(fields) != 4 {
		return Network{}, errors.NotValidf("network record %q", line)
	}
	attached, err := parseContainerMap(fields[2])
	if err != nil {
		return Network{}, errors.Annotatef(err, "network record %q", line)
	}
	return Network{
		ID:       fields[0],
		Created:  fields[1],
		Attached: attached,
		Name:     fields[3],
	}, nil
}

// parseVolume decodes one line of volume inspection output.
func parseVolume(line string) (Volume, error) {
	fields := strings.Split(line, "|")
	if len(fields) != 2 {
		return Volume{}, errors.NotValidf("volume record %q", line)
	}
	return Volume{
		Name:    fields[0],
		Created: fields[1],
	}, nil
}

// parseBracketList decodes the template rendering of a string slice,
// "[]" or "[registry/app:latest app:1.2]".
func parseBracketList(field string) (set.Strings, error) {
	if !strings.HasPrefix(field, "[") || !strings.HasSuffix(field, "]") {
		return nil, errors.NotValidf("list %q", field)
	}
	return set.NewStrings(strings.Fields(field[1 : len(field)-1])...), nil
}

// parseContainerMap decodes the template rendering of a network's
// container map, "map[]" or "map[id:{endpoint fields} ...]", keeping
// only the container identifiers.
func parseContainerMap(field string) (set.Strings, error) {
	if !strings.HasPrefix(field, "map[") || !strings.HasSuffix(field, "]") {
		return nil, errors.NotValidf("container map %q", field)
	}
	attached := set.NewStrings()
	inner := field[len("map[") : len(field)-1]
	for inner != "" {
		colon := strings.Index(inner, ":{")
		if colon <= 0 {
			return nil, errors.NotValidf("container map %q", field)
		}
		closing := strings.Index(inner[colon:], "}")
		if closing < 0 {
			return nil, errors.NotValidf("container map %q", field)
		}
		attached.Add(inner[:colon])
		inner = strings.TrimPrefix(inner[colon+closing+1:], " ")
	}
	return attached, nil
}
