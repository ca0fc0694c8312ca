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

package preview

import (
	"log/slog"

	"github.com/ma-tf/exifcore/internal/service/display"
	"github.com/spf13/cobra"
)

// NewCommand builds the "preview" command: extract a file's embedded
// thumbnail/preview and render it as terminal ASCII art.
func NewCommand(log *slog.Logger, uc UseCase, disp display.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a file's embedded thumbnail or preview as ASCII art",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()

			log.DebugContext(ctx, "preview arguments", slog.String("path", args[0]))

			raw, err := uc.Extract(ctx, args[0])
			if err != nil {
				return err
			}

			return disp.DisplayThumbnail(command.OutOrStdout(), raw)
		},
	}
}
