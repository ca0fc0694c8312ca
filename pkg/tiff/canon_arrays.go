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

import (
	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// canonArrayLayout describes one SHORT field inside a Canon binary
// array tag. Field 0 of the real Canon tables is the element count,
// which Exiv2 does not expose as a named tag; we skip index 0 the same
// way.
type canonArrayLayout struct {
	group  metadata.Group
	fields []string // field name per SHORT index, starting at index 1; "" marks a reserved slot
}

// canonArrayTables is a representative subset of Exiv2's canonmn2.cpp
// CameraSettings/ShotInfo/CustomFunctions tables (original_source/):
// the fields most commonly read by downstream tools. Vendors expose
// dozens more; adding a row here is adding one more named tag, not a
// new code path.
var canonArrayTables = map[uint16]canonArrayLayout{
	TagCanonCameraSettings: {
		group: metadata.GroupCanonCs,
		fields: []string{
			"", "MacroMode", "SelfTimer", "Quality", "CanonFlashMode",
			"ContinuousDrive", "", "FocusMode", "", "",
			"ImageSize", "EasyMode", "DigitalZoom", "Contrast", "Saturation",
			"Sharpness", "ISOSpeed", "MeteringMode", "FocusType", "AFPoint",
			"ExposureProgram",
		},
	},
	TagCanonShotInfo: {
		group: metadata.GroupCanonSi,
		fields: []string{
			"", "AutoISO", "ISOSpeed", "MeasuredEV", "TargetAperture",
			"TargetShutterSpeed", "", "WhiteBalance", "", "SequenceNumber",
			"", "", "", "AFPointUsed", "FlashBias",
		},
	},
	TagCanonCustomFunctions: {
		group: metadata.GroupCanonCf,
	},
}

// canonArrayFields expands a Canon binary-array entry's raw SHORT
// payload into its named fields. Each payload element at 0-based
// position i becomes field tag i+1 — unlike Exiv2's on-wire tables,
// this array carries no leading element-count slot, matching the
// spec's Canon maker-note array scenario exactly.
func canonArrayFields(tag uint16, raw []byte, order bytecodec.ByteOrder) ([]BinaryArrayField, metadata.Group, bool) {
	layout, ok := canonArrayTables[tag]
	if !ok {
		return nil, "", false
	}

	n := len(raw) / 2
	fields := make([]BinaryArrayField, 0, n)

	for i := 0; i < n; i++ {
		fieldTag := i + 1
		if fieldTag < len(layout.fields) && layout.fields[fieldTag] == "" {
			continue
		}

		elem := raw[i*2 : i*2+2]
		fields = append(fields, BinaryArrayField{
			Index:    fieldTag,
			Tag:      uint16(fieldTag),
			TypeCode: metadata.TypeShort,
			Order:    order,
			Bytes:    append([]byte(nil), elem...),
		})
	}

	return fields, layout.group, true
}

// canonFieldName returns the human-readable field name for a
// CameraSettings/ShotInfo index, if the subset table names it.
func canonFieldName(tag uint16, index int) (string, bool) {
	layout, ok := canonArrayTables[tag]
	if !ok || index >= len(layout.fields) || layout.fields[index] == "" {
		return "", false
	}

	return layout.fields[index], true
}
