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

package container

import "errors"

var (
	// ErrNotJPEG means the stream did not start with a Start Of Image
	// marker.
	ErrNotJPEG = errors.New("container: missing JPEG start-of-image marker")

	// ErrTruncated means a segment's declared length ran past the end of
	// the stream, or no End Of Image marker was found after the scan.
	ErrTruncated = errors.New("container: truncated JPEG segment or scan data")

	// ErrMissingSOS means every marker segment was consumed without ever
	// reaching a Start Of Scan, so there is no entropy-coded image data.
	ErrMissingSOS = errors.New("container: missing start-of-scan marker")

	// ErrSegmentTooLong means a segment's payload plus its 2-byte length
	// field would exceed the 16-bit length JPEG segments encode in.
	ErrSegmentTooLong = errors.New("container: segment too long to encode")
)
