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

// Package doctor reports whether optional cross-check tooling is
// available on the host. It never sits on the read/write path: this is
// purely an environment sanity check for a user who wants to diff
// exifcore's decode against exiftool's.
package doctor

import (
	"fmt"
	"log/slog"

	"github.com/ma-tf/exifcore/internal/service/osexec"
	"github.com/spf13/cobra"
)

// exiftoolBinary is the name doctor looks up on PATH. exifcore never
// shells out to it itself; this command only reports whether a user
// could run one alongside exifcore for a cross-check.
const exiftoolBinary = "exiftool"

// NewCommand builds the "doctor" command: check whether exiftool is
// available on PATH, for cross-checking exifcore's own decode.
func NewCommand(log *slog.Logger, lookPath osexec.LookPath) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check whether optional cross-check tooling (exiftool) is available",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			ctx := command.Context()

			path, err := lookPath.LookPath(exiftoolBinary)
			if err != nil {
				log.DebugContext(ctx, "exiftool not found", slog.String("error", err.Error()))
				fmt.Fprintln(command.OutOrStdout(), "exiftool: not found (cross-checking is unavailable, exifcore's own read/write path is unaffected)")

				return nil
			}

			log.DebugContext(ctx, "exiftool found", slog.String("path", path))
			fmt.Fprintf(command.OutOrStdout(), "exiftool: found at %s\n", path)

			return nil
		},
	}
}
