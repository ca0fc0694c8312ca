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

import "fmt"

// Family is the top-level namespace a Key belongs to.
type Family string

const (
	FamilyExif    Family = "Exif"
	FamilyIptc    Family = "Iptc"
	FamilyXmp     Family = "Xmp"
	FamilyComment Family = "Comment"
	// FamilyImage2 is synthetic, used to surface values that have no
	// natural TIFF tag of their own, e.g. a CIFF preview's absolute
	// file offset.
	FamilyImage2 Family = "Image2"
)

// Group identifies an IFD or maker-note sub-IFD. Group identity is
// unique to a subtree position, not to a tag: the same vendor group
// always refers to the same logical namespace regardless of which
// directory instance produced it.
type Group string

const (
	GroupImage        Group = "Image"
	GroupThumbnail    Group = "Thumbnail"
	GroupPhoto        Group = "Photo"
	GroupGPSInfo      Group = "GPSInfo"
	GroupIop          Group = "Iop"
	GroupCanon        Group = "Canon"
	GroupCanonCs      Group = "CanonCs"
	GroupCanonSi      Group = "CanonSi"
	GroupCanonCf      Group = "CanonCf"
	GroupNikon1       Group = "Nikon1"
	GroupNikon2       Group = "Nikon2"
	GroupNikon3       Group = "Nikon3"
	GroupNikonPreview Group = "NikonPreview"
	GroupOlympus      Group = "Olympus"
	GroupFuji         Group = "Fuji"
	GroupPanasonic    Group = "Panasonic"
	GroupSigma        Group = "Sigma"
	GroupSony1        Group = "Sony1"
	GroupSony2        Group = "Sony2"
	GroupMinolta      Group = "Minolta"
	GroupPentax       Group = "Pentax"
	GroupSubImage1    Group = "SubImage1"
	GroupSubImage2    Group = "SubImage2"
	GroupSubImage3    Group = "SubImage3"
	GroupSubImage4    Group = "SubImage4"
	GroupSubImage5    Group = "SubImage5"
	GroupSubImage6    Group = "SubImage6"
	GroupSubImage7    Group = "SubImage7"
	GroupSubImage8    Group = "SubImage8"
	GroupSubImage9    Group = "SubImage9"
	GroupSubThumb1    Group = "SubThumb1"
	GroupPanaRaw      Group = "PanaRaw"
	GroupIFD2         Group = "IFD2"
	GroupIFD3         Group = "IFD3"
)

// Key names one metadatum: a family, a group (IFD/sub-IFD namespace),
// and the 16-bit tag id within that group.
type Key struct {
	Family Family
	Group  Group
	Tag    uint16
}

// TagNamer resolves a Key to a printable tag name. The core only
// defines the hook, not its contents (spec.md §1): callers supply a
// dictionary, e.g. package tagdict.
type TagNamer interface {
	Name(Key) (string, bool)
}

// String renders the key using its numeric tag id, e.g. "Exif.Photo.0x9003".
// Use a TagNamer for a human-readable tag name instead.
func (k Key) String() string {
	return fmt.Sprintf("%s.%s.0x%04x", k.Family, k.Group, k.Tag)
}
