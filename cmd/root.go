/*
Package cmd implements the command line interface for exifcore.

Copyright © 2026 Matt F
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/ma-tf/exifcore/internal/cli/doctor"
	"github.com/ma-tf/exifcore/internal/cli/exif"
	"github.com/ma-tf/exifcore/internal/cli/export"
	"github.com/ma-tf/exifcore/internal/cli/preview"
	"github.com/ma-tf/exifcore/internal/container"
	"github.com/ma-tf/exifcore/internal/service/osexec"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//nolint:gochecknoglobals // cobra boilerplate
var (
	cfgFile  string
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	rootCmd  = &cobra.Command{
		Use:   "exifcore",
		Short: "Read and write Exif/TIFF/CIFF metadata in image files.",
		Long: `exifcore is a command line tool for inspecting and editing the
metadata embedded in JPEG, bare TIFF, and Canon CIFF (.crw) files.

You can dump every decoded tag, assign a single tag and write the file
back, strip a JPEG's Exif payload entirely, export the decoded tags as
CSV, or render an embedded thumbnail/preview as terminal ASCII art.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := initialiseConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to initialise configuration: %w", err)
			}

			cfgLogLevel := viper.GetString("log.level")
			level := slog.LevelInfo
			switch strings.ToLower(cfgLogLevel) {
			case "debug":
				level = slog.LevelDebug
			case "warn", "warning":
				level = slog.LevelWarn
			case "error":
				level = slog.LevelError
			}

			logLevel.Set(level)

			//nolint:sloglint // global logger is fine here
			logger.DebugContext(
				cmd.Context(),
				"Configuration initialised. Using config file:",
				slog.String("cfgFile", viper.ConfigFileUsed()),
			)

			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // cobra boilerplate
func init() {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		//nolint:exhaustruct // tint boilerplate
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: logLevel,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})
	}
	logger = slog.New(handler)

	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.exifcore/config)")

	ctr := container.New(logger, osexec.NewLookPath())

	rootCmd.AddCommand(exif.NewCommand(logger, exif.NewUseCase(logger, ctr.ExifcoreService), ctr.DisplayService, ctr.TagNamer))
	rootCmd.AddCommand(preview.NewCommand(logger, preview.NewUseCase(logger, ctr.ExifcoreService), ctr.DisplayService))
	rootCmd.AddCommand(export.NewCommand(logger, export.NewUseCase(logger, ctr.ExifcoreService, ctr.CSVService), ctr.TagNamer))
	rootCmd.AddCommand(doctor.NewCommand(logger, ctr.LookPath))
}

func initialiseConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("EXIFCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "*", "-", "*"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("log.level", "EXIFCORE_LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind env variable: %w", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for a config file in default locations.
		home, err := os.UserHomeDir()
		// Only panic if we can't get the home directory.
		cobra.CheckErr(err)

		// Search config in home directory with name "config" (without extension).
		viper.AddConfigPath(".")
		viper.AddConfigPath(home + "/.exifcore")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to initialise config: %w", err)
		}
	}

	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to bind config flags: %w", err)
	}

	return nil
}
