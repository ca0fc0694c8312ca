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

//go:generate mockgen -destination=./mocks/service_mock.go -package=display_test github.com/ma-tf/exifcore/internal/service/display Service

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/ma-tf/exifcore/pkg/metadata"
)

const (
	keyWidth   = 40
	typeWidth  = 10
	valueWidth = 40
)

// Service renders decoded metadata and thumbnails for console output.
type Service interface {
	// DisplayMetadata writes set as a fixed-width table, one row per
	// record, in the set's current iteration order. namer may be nil,
	// in which case every key is rendered by its numeric form.
	DisplayMetadata(w io.Writer, set *metadata.MetadataSet, namer metadata.TagNamer)

	// DisplayThumbnail decodes raw as a JPEG and writes its ASCII-art
	// rendering to w.
	DisplayThumbnail(w io.Writer, raw []byte) error
}

type service struct {
	thumbnails DisplayableThumbnailFactory
}

// NewService builds a Service.
func NewService() Service {
	return &service{
		thumbnails: NewDisplayableThumbnailFactory(),
	}
}

func (s *service) DisplayMetadata(w io.Writer, set *metadata.MetadataSet, namer metadata.TagNamer) {
	rows := NewDisplayableRowFactory(namer).Create(set)

	header := fmt.Sprintf("%-*s %-*s %-*s",
		keyWidth, "KEY",
		typeWidth, "TYPE",
		valueWidth, "VALUE",
	)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, row := range rows {
		fmt.Fprintf(w, "%-*s %-*s %-*s\n",
			keyWidth, truncate(row.Key, keyWidth),
			typeWidth, row.Type,
			valueWidth, truncate(row.Value, valueWidth),
		)
	}
}

func (s *service) DisplayThumbnail(w io.Writer, raw []byte) error {
	thumb, err := s.thumbnails.Create(raw)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, thumb.Art)

	return nil
}

func truncate[S ~string](s S, l int) S {
	if len(s) <= l {
		return s
	}

	return s[:l-3] + "..."
}
