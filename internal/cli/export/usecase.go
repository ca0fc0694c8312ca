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

//go:generate mockgen -destination=./mocks/usecase_mock.go -package=export_test github.com/ma-tf/exifcore/internal/cli/export UseCase

// Package export writes a file's decoded metadata out as CSV.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ma-tf/exifcore/internal/service/csv"
	"github.com/ma-tf/exifcore/internal/service/exifcore"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// UseCase decodes a file's embedded metadata and writes it as CSV.
type UseCase interface {
	// Export reads path's metadata and writes it to w as CSV.
	Export(ctx context.Context, w io.Writer, path string, namer metadata.TagNamer) error
}

type useCase struct {
	log *slog.Logger
	svc exifcore.Service
	csv csv.Service
}

// NewUseCase builds a UseCase backed by svc and csv.
func NewUseCase(log *slog.Logger, svc exifcore.Service, csvSvc csv.Service) UseCase {
	return &useCase{log: log, svc: svc, csv: csvSvc}
}

func (u *useCase) Export(ctx context.Context, w io.Writer, path string, namer metadata.TagNamer) error {
	u.log.DebugContext(ctx, "exporting metadata to csv", slog.String("path", path))

	set, err := u.svc.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	return u.csv.ExportMetadata(ctx, w, set, namer)
}
