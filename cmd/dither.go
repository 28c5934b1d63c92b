package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bmpdither/internal/bmp"
	"github.com/AnyUserName/bmpdither/internal/dither"
	"github.com/AnyUserName/bmpdither/internal/encoder"
	"github.com/AnyUserName/bmpdither/internal/pipeline"
)

var (
	ditherWorkers      int
	ditherPreview      string
	ditherPreviewWidth int
	ditherOpts         ditherFlags
)

var ditherCmd = &cobra.Command{
	Use:   "dither <in.bmp> <out.bmp>",
	Short: "Dither a single bitmap",
	Long: `Reads a 24-bit bitmap, dithers it onto the profile palette and writes the
result with the source headers unchanged. The output may be the input path.

With --preview a rendering in that format is written next to the output as
<out>.preview.<ext>.`,
	Args: cobra.ExactArgs(2),
	RunE: runDither,
}

func init() {
	f := ditherCmd.Flags()
	f.IntVarP(&ditherWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.StringVar(&ditherPreview, "preview", "", "also write a preview (png|jpeg|bmp)")
	f.IntVar(&ditherPreviewWidth, "preview-width", 0, "preview width (0 = full size)")
	ditherOpts.register(f)
	rootCmd.AddCommand(ditherCmd)
}

func runDither(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	in, out := args[0], args[1]
	start := time.Now()

	prof, err := resolveProfile(ctx, ditherOpts.profile, ditherOpts.profiles)
	if err != nil {
		return err
	}
	if err := ditherOpts.apply(&prof); err != nil {
		return err
	}
	cfg, err := prof.Config()
	if err != nil {
		return err
	}

	var enc encoder.Encoder
	if ditherPreview != "" {
		if enc = encoder.NewRegistry().Get(ditherPreview); enc == nil {
			return fmt.Errorf("unknown preview format %q", ditherPreview)
		}
	}

	img, err := bmp.ReadPixels(in)
	if err != nil {
		return err
	}
	if err := dither.DitherParallel(ctx, img, cfg, ditherWorkers); err != nil {
		return fmt.Errorf("dither %s: %w", in, err)
	}
	if err := bmp.WritePixels(in, img, out); err != nil {
		return err
	}
	slog.DebugContext(ctx, "dithered",
		"in", in,
		"out", out,
		"width", img.Width,
		"height", img.Height,
		"dim", cfg.Dim,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if enc == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%dx%d)\n", in, out, img.Width, img.Height)
		return nil
	}
	preview, err := pipeline.RenderPreview(img, cfg.Palette, ditherPreviewWidth, prof.Filter)
	if err != nil {
		return err
	}
	data, err := enc.Encode(preview, prof.Quality)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	previewPath := strings.TrimSuffix(out, filepath.Ext(out)) + ".preview." + enc.Extension()
	if err := os.WriteFile(previewPath, data, 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%dx%d), preview %s\n", in, out, img.Width, img.Height, previewPath)
	return nil
}
