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

package tiff

import "errors"

var (
	// ErrBadMagic means the header did not start with an "II" or "MM"
	// byte-order mark; fatal at the top level. The magic word that
	// follows is returned in Header.Magic without being checked.
	ErrBadMagic = errors.New("tiff: bad header magic")

	// ErrTruncated means a directory or value extended past the blob.
	ErrTruncated = errors.New("tiff: truncated directory or value")

	// ErrCircularReference means a sub-IFD offset re-entered an ancestor
	// directory within the same subtree lineage.
	ErrCircularReference = errors.New("tiff: circular sub-IFD reference")

	// ErrIntrusiveOversize means the encoder's output still exceeds the
	// container ceiling after the full filter cascade.
	ErrIntrusiveOversize = errors.New("tiff: encoded blob exceeds container ceiling")
)
