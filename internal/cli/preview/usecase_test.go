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
	"github.com/ma-tf/exifcore/internal/service/exifcore"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

var errExample = errors.New("example error")

// fakeService is a hand-rolled exifcore.Service fake, standing in for
// a mockgen-generated mock (mockgen is not run in this environment).
type fakeService struct {
	thumbnail []byte
	err       error
}

func (f *fakeService) Read(context.Context, string) (*metadata.MetadataSet, error) {
	return nil, errExample
}

func (f *fakeService) Write(context.Context, string, *metadata.MetadataSet) error {
	return errExample
}

func (f *fakeService) Strip(context.Context, string) error {
	return errExample
}

func (f *fakeService) ReadThumbnail(_ context.Context, _ string) ([]byte, error) {
	return f.thumbnail, f.err
}

var _ exifcore.Service = (*fakeService)(nil)

func Test_Extract(t *testing.T) {
	t.Parallel()

	want := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	svc := &fakeService{thumbnail: want}

	uc := preview.NewUseCase(slog.Default(), svc)

	got, err := uc.Extract(t.Context(), "a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(got) != string(want) {
		t.Errorf("Extract() = %x, want %x", got, want)
	}
}

func Test_Extract_Error(t *testing.T) {
	t.Parallel()

	svc := &fakeService{err: errExample}
	uc := preview.NewUseCase(slog.Default(), svc)

	_, err := uc.Extract(t.Context(), "a.jpg")
	if !errors.Is(err, errExample) {
		t.Errorf("expected errExample in chain, got %v", err)
	}
}
