package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bmpdither/internal/manifest"
	"github.com/AnyUserName/bmpdither/internal/pipeline"
)

var (
	buildOutDir        string
	buildWorkers       int
	buildZstd          bool
	buildPreviewWidths []int
	buildPreviews      []string
	buildQuality       int
	buildFilter        string
	buildDither        ditherFlags
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Dither every bitmap in a directory and write a manifest",
	Long: `Scans the input directory for .bmp files, dithers each one with the
selected profile and writes the results, optional previews and a manifest
(` + manifest.FileName + `) to the output directory.

Files with a .bmp name that are not bitmaps are skipped and counted.
Output filenames are content-addressed: <key>.<hash>.bmp[.zst] and
<key>.<w>.<h>.<hash>.<ext> for previews.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildOutDir, "out", "o", "./bmpdither_out", "output directory")
	f.IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.BoolVar(&buildZstd, "zstd", false, "store dithered bitmaps zstd-compressed (.bmp.zst)")
	f.IntSliceVar(&buildPreviewWidths, "preview-width", nil, "preview widths (overrides profile)")
	f.StringSliceVar(&buildPreviews, "preview", nil, "preview formats png,jpeg,bmp (overrides profile; \"none\" disables)")
	f.IntVarP(&buildQuality, "quality", "q", 0, "jpeg preview quality 1-100 (0 = profile default)")
	f.StringVar(&buildFilter, "filter", "", "preview resample filter "+strings.Join(pipeline.Filters(), "|"))
	buildDither.register(f)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := resolveProfile(ctx, buildDither.profile, buildDither.profiles)
	if err != nil {
		return err
	}
	if err := buildDither.apply(&prof); err != nil {
		return err
	}
	if buildPreviewWidths != nil {
		prof.PreviewWidths = buildPreviewWidths
	}
	switch {
	case len(buildPreviews) == 1 && buildPreviews[0] == "none":
		prof.Previews = nil
	case buildPreviews != nil:
		prof.Previews = buildPreviews
	}
	if buildQuality > 0 {
		prof.Quality = buildQuality
	}
	if buildFilter != "" {
		prof.Filter = buildFilter
	}

	slog.DebugContext(ctx, "build",
		"input", absInput,
		"output", absOutput,
		"profile", prof.Name,
		"dim", prof.Dim,
		"palette_size", len(prof.Palette),
		"previews", prof.Previews,
	)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   buildWorkers,
		Compress:  buildZstd,
		Logger:    slog.Default(),
	})
	m, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(cmd.OutOrStdout(), m, time.Since(start))
	return nil
}

func printBuildReport(w io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  bmpdither build complete")
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Assets:      %d\n", s.TotalAssets)
	fmt.Fprintf(w, "  Previews:    %d\n", s.TotalPreviews)
	if s.SkippedUnknown > 0 {
		fmt.Fprintf(w, "  Skipped:     %d files (not bitmaps)\n", s.SkippedUnknown)
	}
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	if bi := m.BuildInfo; bi != nil {
		fmt.Fprintf(w, "  Matrix:      %dx%d\n", bi.Dim, bi.Dim)
		fmt.Fprintf(w, "  Palette:     %d colours %s\n", bi.PaletteSize, bi.Palette)
		fmt.Fprintf(w, "  Workers:     %d\n", bi.Workers)
		fmt.Fprintf(w, "  Run:         %s\n", bi.RunID)
	}
	fmt.Fprintln(w)

	// Largest outputs first.
	if len(m.Assets) > 0 {
		keys := make([]string, 0, len(m.Assets))
		for k := range m.Assets {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := m.Assets[keys[i]], m.Assets[keys[j]]
			if a.Output.Size != b.Output.Size {
				return a.Output.Size > b.Output.Size
			}
			return keys[i] < keys[j]
		})
		n := min(len(keys), 10)
		fmt.Fprintf(w, "  Top %d largest (original -> output, colours used):\n", n)
		for _, k := range keys[:n] {
			a := m.Assets[k]
			fmt.Fprintf(w, "    %-40s %8s -> %8s  %3d\n",
				truncKey(k, 40),
				formatBytes(a.Original.Size),
				formatBytes(a.Output.Size),
				len(a.PaletteUsage),
			)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Manifest:    %s\n", manifest.FileName)
	fmt.Fprintln(w)
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
