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

// Package display renders a metadata.MetadataSet and a raw thumbnail
// payload for console output.
package display

// DisplayableRow is one printable metadata.Record: its key rendered as
// a dotted path (mnemonic name when a TagNamer resolves one, numeric
// tag otherwise) plus its formatted value.
type DisplayableRow struct {
	Key   string
	Type  string
	Value string
}

// DisplayableThumbnail is an ASCII-art rendering of a decoded
// thumbnail image, ready to print.
type DisplayableThumbnail struct {
	Art string
}
