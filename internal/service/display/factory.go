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

package display

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/ma-tf/exifcore/pkg/metadata"
	"github.com/qeesung/image2ascii/convert"
)

// ErrDecodeThumbnail means the raw thumbnail bytes extracted from a
// file's metadata did not decode as a JPEG image.
var ErrDecodeThumbnail = errors.New("display: failed to decode thumbnail image")

// typeNames gives a short mnemonic for each metadata.TypeCode, mirroring
// the naming pkg/metadata/value.go itself uses for the type constants.
var typeNames = map[metadata.TypeCode]string{ //nolint:gochecknoglobals // immutable lookup table
	metadata.TypeByte:      "BYTE",
	metadata.TypeASCII:     "ASCII",
	metadata.TypeShort:     "SHORT",
	metadata.TypeLong:      "LONG",
	metadata.TypeRational:  "RATIONAL",
	metadata.TypeSByte:     "SBYTE",
	metadata.TypeUndefined: "UNDEFINED",
	metadata.TypeSShort:    "SSHORT",
	metadata.TypeSLong:     "SLONG",
	metadata.TypeSRational: "SRATIONAL",
	metadata.TypeFloat:     "FLOAT",
	metadata.TypeDouble:    "DOUBLE",
	metadata.TypeComment:   "COMMENT",
}

func typeName(tc metadata.TypeCode) string {
	if name, ok := typeNames[tc]; ok {
		return name
	}

	return fmt.Sprintf("0x%04x", uint16(tc))
}

// DisplayableRowFactory builds DisplayableRow values from decoded
// records, resolving tag names through namer when one is supplied.
type DisplayableRowFactory struct {
	namer metadata.TagNamer
}

// NewDisplayableRowFactory builds a factory. A nil namer falls back to
// each key's numeric String form.
func NewDisplayableRowFactory(namer metadata.TagNamer) DisplayableRowFactory {
	return DisplayableRowFactory{namer: namer}
}

// Create renders every record in set, in document order.
func (f DisplayableRowFactory) Create(set *metadata.MetadataSet) []DisplayableRow {
	rows := make([]DisplayableRow, 0, set.Len())

	for i := 0; i < set.Len(); i++ {
		rec := set.At(i)
		rows = append(rows, DisplayableRow{
			Key:   f.keyString(rec.Key),
			Type:  typeName(rec.Value.Type()),
			Value: rec.Value.String(),
		})
	}

	return rows
}

func (f DisplayableRowFactory) keyString(key metadata.Key) string {
	if f.namer == nil {
		return key.String()
	}

	name, ok := f.namer.Name(key)
	if !ok {
		return key.String()
	}

	return fmt.Sprintf("%s.%s.%s", key.Family, key.Group, name)
}

// DisplayableThumbnailFactory decodes a raw JPEG thumbnail payload
// into ASCII art, mirroring the teacher's convert.NewImageConverter
// usage over a pre-decoded image.RGBA.
type DisplayableThumbnailFactory struct{}

// NewDisplayableThumbnailFactory builds a DisplayableThumbnailFactory.
func NewDisplayableThumbnailFactory() DisplayableThumbnailFactory {
	return DisplayableThumbnailFactory{}
}

// Create decodes raw as a JPEG and renders it at a fixed terminal-cell
// aspect ratio (character cells are roughly twice as tall as wide, so
// the target height is halved relative to the source pixel height).
func (f DisplayableThumbnailFactory) Create(raw []byte) (DisplayableThumbnail, error) {
	var (
		img image.Image
		err error
	)

	img, err = jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return DisplayableThumbnail{}, fmt.Errorf("%w: %w", ErrDecodeThumbnail, err)
	}

	const heightRatio = 2

	bounds := img.Bounds()

	options := convert.DefaultOptions
	options.FixedWidth = bounds.Dx()
	options.FixedHeight = bounds.Dy() / heightRatio

	art := convert.NewImageConverter().Image2ASCIIString(img, &options)

	return DisplayableThumbnail{Art: art}, nil
}
