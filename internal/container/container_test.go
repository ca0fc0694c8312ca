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

package container_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ma-tf/exifcore/internal/container"
)

// fakeLookPath is a hand-rolled osexec.LookPath fake, standing in for
// a mockgen-generated mock (mockgen is not run in this environment).
type fakeLookPath struct{}

func (fakeLookPath) LookPath(file string) (string, error) {
	return "/usr/bin/" + file, nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	ctr := container.New(logger, fakeLookPath{})

	if ctr == nil {
		t.Fatal("expected container to be non-nil")
	}

	if ctr.ExifcoreService == nil {
		t.Error("expected ExifcoreService to be wired")
	}

	if ctr.DisplayService == nil {
		t.Error("expected DisplayService to be wired")
	}

	if ctr.CSVService == nil {
		t.Error("expected CSVService to be wired")
	}

	if ctr.TagNamer == nil {
		t.Error("expected TagNamer to be wired")
	}

	if ctr.FileSystem == nil {
		t.Error("expected FileSystem to be wired")
	}
}
