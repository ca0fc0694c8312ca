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
	"log/slog"
	"testing"

	"github.com/ma-tf/exifcore/internal/cli/export"
	"github.com/ma-tf/exifcore/internal/service/csv"
	"github.com/ma-tf/exifcore/internal/service/exifcore"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

var errExample = errors.New("example error")

// fakeService is a hand-rolled exifcore.Service fake, standing in for
// a mockgen-generated mock (mockgen is not run in this environment).
type fakeService struct {
	set *metadata.MetadataSet
	err error
}

func (f *fakeService) Read(context.Context, string) (*metadata.MetadataSet, error) {
	return f.set, f.err
}

func (f *fakeService) Write(context.Context, string, *metadata.MetadataSet) error {
	return errExample
}

func (f *fakeService) Strip(context.Context, string) error {
	return errExample
}

func (f *fakeService) ReadThumbnail(context.Context, string) ([]byte, error) {
	return nil, errExample
}

var _ exifcore.Service = (*fakeService)(nil)

func Test_Export(t *testing.T) {
	t.Parallel()

	set := metadata.NewMetadataSet()

	value, err := metadata.ReadFromString(metadata.TypeASCII, "Test Camera")
	if err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f}, value)

	svc := &fakeService{set: set}
	uc := export.NewUseCase(slog.Default(), svc, csv.NewService(slog.Default()))

	var out bytes.Buffer
	if err := uc.Export(t.Context(), &out, "file.jpg", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "KEY,TYPE,VALUE\nExif.Image.0x010f,ASCII,Test Camera\n"
	if out.String() != want {
		t.Errorf("Export() = %q, want %q", out.String(), want)
	}
}

func Test_Export_ReadError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{err: errExample}
	uc := export.NewUseCase(slog.Default(), svc, csv.NewService(slog.Default()))

	var out bytes.Buffer

	err := uc.Export(t.Context(), &out, "file.jpg", nil)
	if !errors.Is(err, errExample) {
		t.Errorf("expected errExample in chain, got %v", err)
	}
}
