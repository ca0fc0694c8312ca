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

import "errors"

var (
	// ErrBadMagic means the header's byte-order mark or HEAPCCDR
	// signature was not recognized; fatal at the top level.
	ErrBadMagic = errors.New("ciff: bad header signature")

	// ErrTruncated means a directory trailer or referenced value
	// extended past the blob.
	ErrTruncated = errors.New("ciff: truncated directory or value")
)
