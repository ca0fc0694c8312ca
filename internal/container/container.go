// Package container provides dependency injection for exifcore services.
//
// It wires together all the services, repositories, and infrastructure components
// needed by the application, making them available through a single Container struct.
package container

import (
	"log/slog"

	"github.com/ma-tf/exifcore/internal/service/csv"
	"github.com/ma-tf/exifcore/internal/service/display"
	"github.com/ma-tf/exifcore/internal/service/exifcore"
	"github.com/ma-tf/exifcore/internal/service/osexec"
	"github.com/ma-tf/exifcore/internal/service/osfs"
	"github.com/ma-tf/exifcore/pkg/metadata"
	"github.com/ma-tf/exifcore/pkg/tagdict"
)

// Container holds all application dependencies and services.
// It provides a centralized location for dependency management and injection.
type Container struct {
	Logger          *slog.Logger
	FileSystem      osfs.FileSystem
	LookPath        osexec.LookPath
	ExifcoreService exifcore.Service
	DisplayService  display.Service
	CSVService      csv.Service
	TagNamer        metadata.TagNamer
}

// New creates and initializes a Container with all required services and dependencies.
func New(logger *slog.Logger, lookPath osexec.LookPath) *Container {
	fs := osfs.NewFileSystem()

	return &Container{
		Logger:          logger,
		FileSystem:      fs,
		LookPath:        lookPath,
		ExifcoreService: exifcore.NewService(logger, fs),
		DisplayService:  display.NewService(),
		CSVService:      csv.NewService(logger),
		TagNamer:        tagdict.New(),
	}
}
