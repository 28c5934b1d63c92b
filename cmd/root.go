package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bmpdither/internal/logging"
	"github.com/AnyUserName/bmpdither/internal/profile"
)

var (
	version   = "0.1.0"
	verbose   bool
	logLevel  string
	logFormat string
	logFile   string

	// logCloser is the rotated log file, closed after the command ran.
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "bmpdither",
	Short: "Ordered dithering for 24-bit BMP images",
	Long: `bmpdither snaps every pixel of uncompressed 24-bit bitmaps onto a fixed
palette using a Bayer threshold matrix.

The output keeps the source headers byte for byte; only the pixel payload
changes. Single files are handled by "dither", whole directories by "build",
which also writes previews and a manifest.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the CLI with ctx cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	pf.StringVar(&logLevel, "log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text|json)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file, rotated at 10 MB")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"bmpdither %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level, ok := logging.ParseLevel(logLevel)
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = cmd.ErrOrStderr()
	if logFile != "" {
		fw := logging.FileWriter(logFile)
		logCloser = fw
		w = fw
	}

	switch logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", logFormat)
	}
	slog.SetDefault(logging.Logger(w, logFormat == "json", level))

	if !ok {
		slog.WarnContext(cmd.Context(), "invalid log level, defaulting to INFO", "level", logLevel)
	}
	return nil
}

// resolveProfile returns the named profile from the built-ins, extended by
// the YAML file at path when given.
func resolveProfile(ctx context.Context, name, path string) (profile.Profile, error) {
	set := profile.Builtin()
	if path != "" {
		var err error
		if set, err = profile.Load(path); err != nil {
			return profile.Profile{}, err
		}
	}
	if _, ok := set[name]; !ok && name != "" {
		slog.WarnContext(ctx, "unknown profile, using defaults", "profile", name, "default", profile.DefaultName)
	}
	return set.Get(name), nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
