// exifcore reads and writes metadata embedded in still-image and video
// container files.
// Copyright (C) 2026  Matt F
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package tagdict supplies a metadata.TagNamer backed by an embedded
// JSON table, the one "callers supply a dictionary" concrete
// implementation spec.md §1 leaves external to the core. Mirrors
// internal/domain's MapProvider: embed the data file, unmarshal once
// at construction into lookup maps, serve Name from there.
package tagdict

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/ma-tf/exifcore/pkg/metadata"
)

//go:embed tags.json
var tagData []byte

// Dictionary resolves a metadata.Key to its printable Exif tag name,
// grouped the same way pkg/metadata.Group partitions keys.
type Dictionary struct {
	groups map[string]map[uint16]string
}

// New parses the embedded tag table into a ready Dictionary. Malformed
// or unparseable entries are skipped rather than failing construction,
// since a missing tag name only degrades display, never correctness.
func New() *Dictionary {
	var raw map[string]map[string]string

	_ = json.Unmarshal(tagData, &raw)

	groups := make(map[string]map[uint16]string, len(raw))

	for group, tags := range raw {
		m := make(map[uint16]string, len(tags))

		for hexTag, name := range tags {
			var tag uint16
			if _, err := fmt.Sscanf(hexTag, "0x%04x", &tag); err == nil {
				m[tag] = name
			}
		}

		groups[group] = m
	}

	return &Dictionary{groups: groups}
}

// Name implements metadata.TagNamer. A table named after the key's
// family (the synthetic Image2 family) is consulted before the table
// named after its group.
func (d *Dictionary) Name(key metadata.Key) (string, bool) {
	if tags, ok := d.groups[string(key.Family)]; ok {
		if name, ok := tags[key.Tag]; ok {
			return name, true
		}
	}

	tags, ok := d.groups[string(key.Group)]
	if !ok {
		return "", false
	}

	name, ok := tags[key.Tag]

	return name, ok
}
