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

package doctor_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/ma-tf/exifcore/internal/cli/doctor"
	"github.com/ma-tf/exifcore/internal/service/osexec"
)

// fakeLookPath is a hand-rolled osexec.LookPath fake, standing in for a
// mockgen-generated mock (mockgen is not run in this environment).
type fakeLookPath struct {
	path string
	err  error
}

func (f fakeLookPath) LookPath(string) (string, error) {
	return f.path, f.err
}

var _ osexec.LookPath = fakeLookPath{}

func Test_NewCommand_Found(t *testing.T) {
	t.Parallel()

	cmd := doctor.NewCommand(slog.Default(), fakeLookPath{path: "/usr/bin/exiftool"})
	cmd.SilenceUsage = true

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Contains(out.Bytes(), []byte("/usr/bin/exiftool")) {
		t.Errorf("expected output to mention the resolved path, got:\n%s", out.String())
	}
}

func Test_NewCommand_NotFound(t *testing.T) {
	t.Parallel()

	cmd := doctor.NewCommand(slog.Default(), fakeLookPath{err: errors.New("not found")})
	cmd.SilenceUsage = true

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Contains(out.Bytes(), []byte("not found")) {
		t.Errorf("expected output to mention exiftool is missing, got:\n%s", out.String())
	}
}
