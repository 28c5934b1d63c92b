package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bmpdither/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a build output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	m, _, err := manifest.Read(args[0])
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if bi := m.BuildInfo; bi != nil {
		fmt.Fprintf(w, "  Run:              %s\n", bi.RunID)
		fmt.Fprintf(w, "  Workers:          %d\n", bi.Workers)
		fmt.Fprintf(w, "  Matrix:           %dx%d, thresholds %v\n", bi.Dim, bi.Dim, bi.Thresholds)
		fmt.Fprintf(w, "  Palette:          %d colours %s\n", bi.PaletteSize, bi.Palette)
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total assets:     %d\n", s.TotalAssets)
	fmt.Fprintf(w, "  Total previews:   %d\n", s.TotalPreviews)
	fmt.Fprintf(w, "  Skipped:          %d\n", s.SkippedUnknown)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintln(w)

	// Per-format breakdown.
	type formatStat struct {
		count    int
		bytes    int64
		rawBytes int64
	}
	formats := map[string]formatStat{}
	add := func(v manifest.Variant) {
		fs := formats[v.Format]
		fs.count++
		fs.bytes += v.Size
		fs.rawBytes += v.RawSize
		formats[v.Format] = fs
	}
	for _, a := range m.Assets {
		add(a.Output)
		for _, v := range a.Previews {
			add(v)
		}
	}
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, f)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "  Format breakdown:")
	for _, f := range names {
		fs := formats[f]
		fmt.Fprintf(w, "    %-9s %4d files  %s", f, fs.count, formatBytes(fs.bytes))
		if fs.rawBytes > 0 {
			fmt.Fprintf(w, "  (%.1f%% of %s uncompressed)",
				float64(fs.bytes)/float64(fs.rawBytes)*100, formatBytes(fs.rawBytes))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	// Palette usage across all assets.
	usage := map[string]int{}
	var pixels int
	for _, a := range m.Assets {
		for c, n := range a.PaletteUsage {
			usage[c] += n
			pixels += n
		}
	}
	colours := make([]string, 0, len(usage))
	for c := range usage {
		colours = append(colours, c)
	}
	sort.Slice(colours, func(i, j int) bool {
		if usage[colours[i]] != usage[colours[j]] {
			return usage[colours[i]] > usage[colours[j]]
		}
		return colours[i] < colours[j]
	})
	fmt.Fprintf(w, "  Palette usage (%d colours):\n", len(colours))
	for _, c := range colours {
		fmt.Fprintf(w, "    #%s  %10d px  %5.1f%%\n", c, usage[c], float64(usage[c])/float64(pixels)*100)
	}

	var warnings []string
	for key, a := range m.Assets {
		if len(a.PaletteUsage) == 1 {
			warnings = append(warnings, fmt.Sprintf("asset %q dithered to a single colour", key))
		}
	}
	if len(warnings) > 0 {
		sort.Strings(warnings)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ! %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}
