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

package exifcore

import "errors"

var (
	// ErrUnsupportedFormat means the file's leading bytes matched none
	// of JPEG, CIFF, or bare TIFF.
	ErrUnsupportedFormat = errors.New("exifcore: unsupported file format")

	// ErrReadFile and ErrWriteFile wrap the underlying osfs error with
	// which path failed.
	ErrReadFile  = errors.New("exifcore: failed to read file")
	ErrWriteFile = errors.New("exifcore: failed to write file")

	// ErrNoExifData means a JPEG file carries no APP1 Exif segment.
	ErrNoExifData = errors.New("exifcore: file carries no Exif payload")

	// ErrStripUnsupported means Strip was called on a format that has
	// no representation without its metadata tree (CIFF, bare TIFF).
	ErrStripUnsupported = errors.New("exifcore: strip is only supported for JPEG files")

	// ErrOversize means the re-encoded Exif payload no longer fits a
	// single JPEG APP1 segment even after pkg/tiff's drop cascade.
	ErrOversize = errors.New("exifcore: encoded metadata exceeds the container's capacity")

	// ErrNoThumbnail means the file's metadata carries no embedded
	// thumbnail/preview offset and length pair.
	ErrNoThumbnail = errors.New("exifcore: file carries no embedded thumbnail")
)
