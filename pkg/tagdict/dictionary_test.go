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

package tagdict_test

import (
	"testing"

	"github.com/ma-tf/exifcore/pkg/metadata"
	"github.com/ma-tf/exifcore/pkg/tagdict"
)

func TestDictionaryName(t *testing.T) {
	t.Parallel()

	dict := tagdict.New()

	tests := []struct {
		name     string
		key      metadata.Key
		wantName string
		wantOK   bool
	}{
		{
			name:     "Exif.Image.Make resolves",
			key:      metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f},
			wantName: "Make",
			wantOK:   true,
		},
		{
			name:     "Exif.Photo.UserComment resolves",
			key:      metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0x9286},
			wantName: "UserComment",
			wantOK:   true,
		},
		{
			name:     "Exif.CanonCs.Macro resolves",
			key:      metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupCanonCs, Tag: 0x0001},
			wantName: "Macro",
			wantOK:   true,
		},
		{
			name:   "unknown group misses",
			key:    metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupSigma, Tag: 0x0001},
			wantOK: false,
		},
		{
			name:   "unknown tag in a known group misses",
			key:    metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0xffff},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := dict.Name(tc.key)
			if ok != tc.wantOK {
				t.Fatalf("Name(%+v) ok = %v, want %v", tc.key, ok, tc.wantOK)
			}

			if ok && got != tc.wantName {
				t.Fatalf("Name(%+v) = %q, want %q", tc.key, got, tc.wantName)
			}
		})
	}
}

func TestDictionaryImplementsTagNamer(t *testing.T) {
	t.Parallel()

	var _ metadata.TagNamer = tagdict.New()
}
