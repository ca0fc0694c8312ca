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

package export

import (
	"log/slog"
	"os"

	"github.com/ma-tf/exifcore/pkg/metadata"
	"github.com/spf13/cobra"
)

// NewCommand builds the "export" command: write a file's embedded
// metadata out as CSV, to stdout or to --output.
func NewCommand(log *slog.Logger, uc UseCase, namer metadata.TagNamer) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a file's embedded metadata as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()

			log.DebugContext(ctx, "export arguments",
				slog.String("path", args[0]),
				slog.String("output", output))

			w := command.OutOrStdout()

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()

				w = f
			}

			return uc.Export(ctx, w, args[0], namer)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "write CSV to this file instead of stdout")

	return cmd
}
