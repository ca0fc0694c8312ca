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

package exif

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ma-tf/exifcore/internal/service/exifcore"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// ErrSetFailed wraps any failure while assigning and writing back a
// single metadata value.
var ErrSetFailed = errors.New("failed to set metadata value")

// UseCase defines the business logic behind the exif dump/set/strip
// subcommands.
type UseCase interface {
	// Dump decodes every record present in the file at path.
	Dump(ctx context.Context, path string) (*metadata.MetadataSet, error)

	// Set assigns a single value by key, creating a fresh metadata set
	// when the file carries none yet, and writes the result back.
	Set(
		ctx context.Context,
		path string,
		key metadata.Key,
		typeCode metadata.TypeCode,
		text string,
	) error

	// Strip removes all embedded metadata from the file at path.
	Strip(ctx context.Context, path string) error
}

type useCase struct {
	log *slog.Logger
	svc exifcore.Service
}

// NewUseCase builds a UseCase backed by svc.
func NewUseCase(log *slog.Logger, svc exifcore.Service) UseCase {
	return useCase{log: log, svc: svc}
}

func (uc useCase) Dump(ctx context.Context, path string) (*metadata.MetadataSet, error) {
	uc.log.InfoContext(ctx, "dumping metadata", slog.String("path", path))

	return uc.svc.Read(ctx, path)
}

func (uc useCase) Set(
	ctx context.Context,
	path string,
	key metadata.Key,
	typeCode metadata.TypeCode,
	text string,
) error {
	uc.log.InfoContext(ctx, "setting metadata value",
		slog.String("path", path),
		slog.String("key", key.String()))

	set, err := uc.svc.Read(ctx, path)
	if err != nil {
		if !errors.Is(err, exifcore.ErrNoExifData) {
			return fmt.Errorf("%w: %w", ErrSetFailed, err)
		}

		set = metadata.NewMetadataSet()
	}

	value, err := metadata.ReadFromString(typeCode, text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSetFailed, err)
	}

	set.Assign(key, value)

	if err := uc.svc.Write(ctx, path, set); err != nil {
		return fmt.Errorf("%w: %w", ErrSetFailed, err)
	}

	uc.log.InfoContext(ctx, "metadata value written", slog.String("path", path))

	return nil
}

func (uc useCase) Strip(ctx context.Context, path string) error {
	uc.log.InfoContext(ctx, "stripping metadata", slog.String("path", path))

	return uc.svc.Strip(ctx, path)
}
