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

package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ma-tf/exifcore/internal/cli/export"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// fakeUseCase is a hand-rolled export.UseCase fake, standing in for a
// mockgen-generated mock (mockgen is not run in this environment). It
// writes a fixed payload to whatever writer it is given.
type fakeUseCase struct {
	payload string
	err     error
}

func (f *fakeUseCase) Export(_ context.Context, w io.Writer, _ string, _ metadata.TagNamer) error {
	if f.err != nil {
		return f.err
	}

	_, err := io.WriteString(w, f.payload)

	return err
}

var _ export.UseCase = (*fakeUseCase)(nil)

func Test_NewCommand_Stdout(t *testing.T) {
	t.Parallel()

	uc := &fakeUseCase{payload: "KEY,TYPE,VALUE\n"}
	cmd := export.NewCommand(slog.Default(), uc, nil)
	cmd.SilenceUsage = true

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"file.jpg"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != uc.payload {
		t.Errorf("output = %q, want %q", out.String(), uc.payload)
	}
}

func Test_NewCommand_OutputFile(t *testing.T) {
	t.Parallel()

	uc := &fakeUseCase{payload: "KEY,TYPE,VALUE\n"}
	cmd := export.NewCommand(slog.Default(), uc, nil)
	cmd.SilenceUsage = true

	path := filepath.Join(t.TempDir(), "out.csv")
	cmd.SetArgs([]string{"file.jpg", "--output", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != uc.payload {
		t.Errorf("file contents = %q, want %q", got, uc.payload)
	}
}

func Test_NewCommand_Error(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	uc := &fakeUseCase{err: wantErr}
	cmd := export.NewCommand(slog.Default(), uc, nil)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"file.jpg"})

	err := cmd.Execute()
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v in chain, got %v", wantErr, err)
	}
}
