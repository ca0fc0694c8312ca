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

//go:generate mockgen -destination=./mocks/usecase_mock.go -package=exif_test github.com/ma-tf/exifcore/internal/cli/exif UseCase

// Package exif provides the dump/set/strip subcommands for reading and
// writing embedded image metadata.
package exif

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ma-tf/exifcore/internal/service/display"
	"github.com/ma-tf/exifcore/pkg/metadata"
	"github.com/spf13/cobra"
)

var (
	ErrInvalidTag  = errors.New("invalid tag value, must be a decimal or 0x-prefixed hex number")
	ErrInvalidType = errors.New("invalid type name")
)

// typesByName resolves the --type flag to a metadata.TypeCode,
// mirroring the mnemonic names pkg/metadata/value.go itself uses.
var typesByName = map[string]metadata.TypeCode{ //nolint:gochecknoglobals // immutable lookup table
	"BYTE":      metadata.TypeByte,
	"ASCII":     metadata.TypeASCII,
	"SHORT":     metadata.TypeShort,
	"LONG":      metadata.TypeLong,
	"RATIONAL":  metadata.TypeRational,
	"SBYTE":     metadata.TypeSByte,
	"UNDEFINED": metadata.TypeUndefined,
	"SSHORT":    metadata.TypeSShort,
	"SLONG":     metadata.TypeSLong,
	"SRATIONAL": metadata.TypeSRational,
	"FLOAT":     metadata.TypeFloat,
	"DOUBLE":    metadata.TypeDouble,
	"COMMENT":   metadata.TypeComment,
}

// NewCommand builds the "exif" parent command and its dump/set/strip
// subcommands. namer may be nil, in which case dump renders keys by
// their numeric form.
func NewCommand(log *slog.Logger, uc UseCase, disp display.Service, namer metadata.TagNamer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exif",
		Short: "Read and write Exif/TIFF/CIFF metadata in an image file.",
	}

	cmd.AddCommand(
		newDumpCommand(log, uc, disp, namer),
		newSetCommand(log, uc),
		newStripCommand(log, uc),
	)

	return cmd
}

func newDumpCommand(log *slog.Logger, uc UseCase, disp display.Service, namer metadata.TagNamer) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print every metadata record embedded in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()

			log.DebugContext(ctx, "exif dump arguments", slog.String("path", args[0]))

			set, err := uc.Dump(ctx, args[0])
			if err != nil {
				return err
			}

			disp.DisplayMetadata(command.OutOrStdout(), set, namer)

			return nil
		},
	}
}

func newSetCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	var family, group, tag, typeName string

	cmd := &cobra.Command{
		Use:   "set <file> <value>",
		Short: "Assign a single metadata value by key and write the file back",
		Args:  cobra.ExactArgs(2), //nolint:mnd // file path + literal value
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()

			log.DebugContext(ctx, "exif set arguments",
				slog.String("path", args[0]),
				slog.String("family", family),
				slog.String("group", group),
				slog.String("tag", tag),
				slog.String("type", typeName))

			tagNum, err := strconv.ParseUint(tag, 0, 16) //nolint:mnd // 16-bit tag id
			if err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
			}

			typeCode, ok := typesByName[typeName]
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidType, typeName)
			}

			key := metadata.Key{
				Family: metadata.Family(family),
				Group:  metadata.Group(group),
				Tag:    uint16(tagNum),
			}

			return uc.Set(ctx, args[0], key, typeCode, args[1])
		},
	}

	cmd.Flags().StringVar(&family, "family", string(metadata.FamilyExif), "tag family, e.g. Exif")
	cmd.Flags().StringVar(&group, "group", string(metadata.GroupImage), "tag group/IFD, e.g. Image")
	cmd.Flags().StringVar(&tag, "tag", "", "tag id, decimal or 0x-prefixed hex")
	cmd.Flags().StringVar(&typeName, "type", "", "value type, e.g. ASCII, SHORT, RATIONAL")

	_ = cmd.MarkFlagRequired("tag")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newStripCommand(log *slog.Logger, uc UseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "strip <file>",
		Short: "Remove all embedded metadata from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()

			log.DebugContext(ctx, "exif strip arguments", slog.String("path", args[0]))

			return uc.Strip(ctx, args[0])
		},
	}
}
