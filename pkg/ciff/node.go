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

package ciff

// Component is one CIFF directory entry: a leaf value, or (when
// IsDirectory is set) a nested heap whose own entries are parsed into
// Children. The C++ original splits this into CiffEntry/CiffDirectory
// subclasses of CiffComponent reached through a visitor; a single
// struct with a Children slice captures the same tree shape without
// the downcasting (mirrors the tiff package's Node-by-type-switch
// choice one level up).
type Component struct {
	Tag      uint16 // full on-wire tag, including the type and directory bits
	Dir      uint16 // TagID of the parent component (0 for the root's direct children)
	Size     uint32
	Inline   bool
	Offset   uint64 // absolute offset into the source blob; valid only when !Inline
	Data     []byte
	Children []*Component
}

// TagID returns the low 14 bits of Tag: the (type, id) pair used as
// the dual map's dictionary key, matching CiffComponent::tagId() in
// original_source/src/crwimage.hpp.
func (c *Component) TagID() uint16 { return c.Tag & tagIDMask }

// ElementType returns the 3-bit element-type code from Tag bits 13..11.
func (c *Component) ElementType() int { return int(c.Tag&tagTypeMask) >> tagTypeShift }

// IsDirectory reports whether this component is itself a nested heap.
func (c *Component) IsDirectory() bool { return c.Tag&tagDirFlag != 0 }

// find returns the first component anywhere in c's children (depth
// first) whose (Tag, Dir) match tag and dir. Used for the root-level
// embedded-preview hack (spec.md S5; original_source/src/crwimage.cpp
// CrwParser::decode's header.findComponent(0x2007, 0x0000) call).
func (c *Component) find(tag, dir uint16) *Component {
	for _, child := range c.Children {
		if child.Tag == tag && child.Dir == dir {
			return child
		}

		if found := child.find(tag, dir); found != nil {
			return found
		}
	}

	return nil
}
