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

//go:generate mockgen -destination=./mocks/service_mock.go -package=csv_test github.com/ma-tf/exifcore/internal/service/csv Service

// Package csv exports a decoded metadata.MetadataSet as CSV, one row
// per record.
package csv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ma-tf/exifcore/pkg/metadata"
)

var ErrFailedToWriteRecords = errors.New("failed to write metadata records")

// Service exports metadata as CSV.
type Service interface {
	// ExportMetadata writes set as CSV, one row per record, in the
	// set's current iteration order. namer may be nil, in which case
	// every key is rendered by its numeric form.
	ExportMetadata(
		ctx context.Context,
		w io.Writer,
		set *metadata.MetadataSet,
		namer metadata.TagNamer,
	) error
}

type service struct {
	log *slog.Logger
}

// NewService builds a Service.
func NewService(log *slog.Logger) Service {
	return &service{
		log: log,
	}
}

func (s *service) ExportMetadata(
	ctx context.Context,
	w io.Writer,
	set *metadata.MetadataSet,
	namer metadata.TagNamer,
) error {
	s.log.InfoContext(ctx, "exporting metadata to csv",
		slog.Int("record_count", set.Len()))

	var b strings.Builder

	_, _ = b.WriteString("KEY,TYPE,VALUE\n")

	s.log.DebugContext(ctx, "csv header written")

	for i := 0; i < set.Len(); i++ {
		rec := set.At(i)

		_, _ = b.WriteString(keyString(rec.Key, namer))
		_, _ = b.WriteString(",")
		_, _ = b.WriteString(typeString(rec.Value.Type()))
		_, _ = b.WriteString(",")
		_, _ = b.WriteString(quoteField(rec.Value.String()))
		_, _ = b.WriteString("\n")
	}

	if _, err := w.Write([]byte(b.String())); err != nil {
		return errors.Join(ErrFailedToWriteRecords, err)
	}

	s.log.InfoContext(ctx, "metadata csv export completed",
		slog.Int("bytes_written", b.Len()),
		slog.Int("record_count", set.Len()))

	return nil
}

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

func typeString(tc metadata.TypeCode) string {
	if name, ok := typeNames[tc]; ok {
		return name
	}

	return fmt.Sprintf("0x%04x", uint16(tc))
}

func keyString(key metadata.Key, namer metadata.TagNamer) string {
	if namer == nil {
		return key.String()
	}

	name, ok := namer.Name(key)
	if !ok {
		return key.String()
	}

	return string(key.Family) + "." + string(key.Group) + "." + name
}

// quoteField wraps a field in double quotes and escapes embedded
// quotes, per RFC 4180, whenever it contains a comma, quote, or
// newline.
func quoteField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}

	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
