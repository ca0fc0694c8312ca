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

package preview_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ma-tf/exifcore/internal/cli/preview"
	"github.com/ma-tf/exifcore/internal/service/display"
)

// fakeUseCase is a hand-rolled preview.UseCase fake, standing in for a
// mockgen-generated mock (mockgen is not run in this environment).
type fakeUseCase struct {
	raw []byte
	err error
}

func (f *fakeUseCase) Extract(context.Context, string) ([]byte, error) {
	return f.raw, f.err
}

var _ preview.UseCase = (*fakeUseCase)(nil)

func Test_NewCommand_Extract_Error(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	uc := &fakeUseCase{err: wantErr}
	cmd := preview.NewCommand(slog.Default(), uc, display.NewService())
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"file.jpg"})

	err := cmd.Execute()
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v in chain, got %v", wantErr, err)
	}
}

func Test_NewCommand_DisplayError(t *testing.T) {
	t.Parallel()

	uc := &fakeUseCase{raw: []byte("not an image")}
	cmd := preview.NewCommand(slog.Default(), uc, display.NewService())
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"file.jpg"})

	err := cmd.Execute()
	if !errors.Is(err, display.ErrDecodeThumbnail) {
		t.Errorf("expected ErrDecodeThumbnail, got %v", err)
	}
}
