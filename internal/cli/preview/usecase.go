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

//go:generate mockgen -destination=./mocks/usecase_mock.go -package=preview_test github.com/ma-tf/exifcore/internal/cli/preview UseCase

// Package preview extracts a file's embedded thumbnail or preview
// bytes and renders them as terminal ASCII art.
package preview

import (
	"context"
	"log/slog"

	"github.com/ma-tf/exifcore/internal/service/exifcore"
)

// UseCase extracts the raw thumbnail/preview bytes embedded in a file.
type UseCase interface {
	// Extract returns the raw bytes of the file's embedded
	// thumbnail/preview, ready for DisplayThumbnail to decode and
	// render.
	Extract(ctx context.Context, path string) ([]byte, error)
}

type useCase struct {
	log *slog.Logger
	svc exifcore.Service
}

// NewUseCase builds a UseCase backed by svc.
func NewUseCase(log *slog.Logger, svc exifcore.Service) UseCase {
	return &useCase{log: log, svc: svc}
}

func (u *useCase) Extract(ctx context.Context, path string) ([]byte, error) {
	u.log.DebugContext(ctx, "extracting thumbnail", slog.String("path", path))

	return u.svc.ReadThumbnail(ctx, path)
}
