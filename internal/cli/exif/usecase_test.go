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

package exif_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ma-tf/exifcore/internal/cli/exif"
	"github.com/ma-tf/exifcore/internal/service/exifcore"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

var errExample = errors.New("example error")

// fakeService is a hand-rolled exifcore.Service fake, standing in for
// a mockgen-generated mock (mockgen is not run in this environment).
type fakeService struct {
	readSet  *metadata.MetadataSet
	readErr  error
	writeErr error
	stripErr error

	writtenPath string
	writtenSet  *metadata.MetadataSet
}

func (f *fakeService) Read(_ context.Context, _ string) (*metadata.MetadataSet, error) {
	return f.readSet, f.readErr
}

func (f *fakeService) Write(_ context.Context, path string, set *metadata.MetadataSet) error {
	f.writtenPath = path
	f.writtenSet = set

	return f.writeErr
}

func (f *fakeService) Strip(_ context.Context, _ string) error {
	return f.stripErr
}

func (f *fakeService) ReadThumbnail(_ context.Context, _ string) ([]byte, error) {
	return nil, errExample
}

var _ exifcore.Service = (*fakeService)(nil)

func Test_Dump(t *testing.T) {
	t.Parallel()

	want := metadata.NewMetadataSet()
	svc := &fakeService{readSet: want}

	uc := exif.NewUseCase(slog.Default(), svc)

	got, err := uc.Dump(t.Context(), "file.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != want {
		t.Errorf("expected the service's set to be returned unchanged")
	}
}

func Test_Dump_Error(t *testing.T) {
	t.Parallel()

	svc := &fakeService{readErr: errExample}
	uc := exif.NewUseCase(slog.Default(), svc)

	_, err := uc.Dump(t.Context(), "file.jpg")
	if !errors.Is(err, errExample) {
		t.Errorf("expected errExample in chain, got %v", err)
	}
}

func Test_Set_NoExistingData(t *testing.T) {
	t.Parallel()

	svc := &fakeService{readErr: exifcore.ErrNoExifData}
	uc := exif.NewUseCase(slog.Default(), svc)

	key := metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f}

	err := uc.Set(t.Context(), "file.jpg", key, metadata.TypeASCII, "Test Camera")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, ok := svc.writtenSet.FindKey(key)
	if !ok {
		t.Fatal("expected the key to be present in the written set")
	}

	if rec.Value.String() != "Test Camera" {
		t.Errorf("unexpected value: %s", rec.Value.String())
	}
}

func Test_Set_ReadError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{readErr: errExample}
	uc := exif.NewUseCase(slog.Default(), svc)

	key := metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f}

	err := uc.Set(t.Context(), "file.jpg", key, metadata.TypeASCII, "x")
	if !errors.Is(err, exif.ErrSetFailed) {
		t.Errorf("expected ErrSetFailed, got %v", err)
	}
}

func Test_Set_WriteError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{readSet: metadata.NewMetadataSet(), writeErr: errExample}
	uc := exif.NewUseCase(slog.Default(), svc)

	key := metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f}

	err := uc.Set(t.Context(), "file.jpg", key, metadata.TypeASCII, "x")
	if !errors.Is(err, exif.ErrSetFailed) {
		t.Errorf("expected ErrSetFailed, got %v", err)
	}
}

func Test_Strip(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	uc := exif.NewUseCase(slog.Default(), svc)

	if err := uc.Strip(t.Context(), "file.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Strip_Error(t *testing.T) {
	t.Parallel()

	svc := &fakeService{stripErr: errExample}
	uc := exif.NewUseCase(slog.Default(), svc)

	err := uc.Strip(t.Context(), "file.jpg")
	if !errors.Is(err, errExample) {
		t.Errorf("expected errExample in chain, got %v", err)
	}
}
