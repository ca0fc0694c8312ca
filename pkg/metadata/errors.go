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

package metadata

import "errors"

var (
	// ErrTypeMismatch is returned when a value is asked to parse a string
	// token into a type that cannot represent it.
	ErrTypeMismatch = errors.New("value: type mismatch")

	// ErrOutOfRange is returned when an element index exceeds a value's count.
	ErrOutOfRange = errors.New("value: index out of range")

	// ErrUnknownType is returned for a type code outside the 13-entry table.
	ErrUnknownType = errors.New("value: unknown type code")

	// ErrValueParse is returned when text cannot be parsed for the declared type.
	ErrValueParse = errors.New("value: could not parse text")
)
