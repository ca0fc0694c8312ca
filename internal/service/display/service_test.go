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

package display_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ma-tf/exifcore/internal/service/display"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

type stubNamer struct {
	names map[metadata.Key]string
}

func (s stubNamer) Name(key metadata.Key) (string, bool) {
	name, ok := s.names[key]

	return name, ok
}

func Test_DisplayMetadata(t *testing.T) {
	t.Parallel()

	makeKey := metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f}

	makeValue, err := metadata.ReadFromString(metadata.TypeASCII, "Test Camera")
	if err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}

	set := metadata.NewMetadataSet()
	set.Insert(makeKey, makeValue)

	tests := []struct {
		name     string
		namer    metadata.TagNamer
		wantRow  string
		wantType string
	}{
		{
			name:     "no namer falls back to numeric key",
			namer:    nil,
			wantRow:  "Exif.Image.0x010f",
			wantType: "ASCII",
		},
		{
			name:     "namer resolves a mnemonic name",
			namer:    stubNamer{names: map[metadata.Key]string{makeKey: "Make"}},
			wantRow:  "Exif.Image.Make",
			wantType: "ASCII",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			display.NewService().DisplayMetadata(&buf, set, tt.namer)

			out := buf.String()
			if !bytes.Contains([]byte(out), []byte(tt.wantRow)) {
				t.Errorf("output missing key %q, got:\n%s", tt.wantRow, out)
			}

			if !bytes.Contains([]byte(out), []byte(tt.wantType)) {
				t.Errorf("output missing type %q, got:\n%s", tt.wantType, out)
			}

			if !bytes.Contains([]byte(out), []byte("Test Camera")) {
				t.Errorf("output missing value, got:\n%s", out)
			}
		})
	}
}

func Test_DisplayMetadata_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	display.NewService().DisplayMetadata(&buf, metadata.NewMetadataSet(), nil)

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("KEY")) {
		t.Errorf("expected a header row even for an empty set, got:\n%s", out)
	}
}

func Test_DisplayThumbnail_InvalidImage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := display.NewService().DisplayThumbnail(&buf, []byte("not a jpeg"))
	if err == nil {
		t.Fatal("expected an error for non-JPEG bytes")
	}

	if !errors.Is(err, display.ErrDecodeThumbnail) {
		t.Errorf("expected ErrDecodeThumbnail, got %v", err)
	}
}
