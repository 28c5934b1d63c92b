package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/AnyUserName/bmpdither/internal/bmp"
	"github.com/AnyUserName/bmpdither/internal/dither"
	"github.com/AnyUserName/bmpdither/internal/encoder"
	"github.com/AnyUserName/bmpdither/internal/hasher"
	"github.com/AnyUserName/bmpdither/internal/manifest"
	"github.com/AnyUserName/bmpdither/internal/pixel"
	"github.com/AnyUserName/bmpdither/internal/quantize"
)

// processResult holds the result of processing a single source bitmap.
type processResult struct {
	key     string
	asset   manifest.Asset
	err     error
	skipped bool // not a bitmap despite the extension
}

// job carries what every worker shares read-only.
type job struct {
	cfg      Config
	dither   dither.Config
	previews []string
	registry *encoder.Registry
	zstd     *zstd.Encoder // nil unless compressing
	log      *slog.Logger
}

// processImage handles a single source: read, dither, write, preview.
func processImage(ctx context.Context, src Source, j *job) processResult {
	result := processResult{key: src.Key}

	format, err := src.Probe()
	if err != nil {
		result.err = err
		return result
	}
	if format == bmp.FormatUnknown {
		j.log.DebugContext(ctx, "skipping non-bitmap file", "path", src.RelPath)
		result.skipped = true
		return result
	}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}
	r := bytes.NewReader(data)
	_, ih, err := bmp.ReadHeaders(r)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}
	geom := bmp.ImageGeometry(ih)

	img, err := bmp.Decode(r)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}
	if err := dither.Dither(img, j.dither); err != nil {
		result.err = fmt.Errorf("dither %s: %w", src.RelPath, err)
		return result
	}

	var out bytes.Buffer
	if err := bmp.Encode(&out, r, img); err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}
	bmpData := out.Bytes()

	usage, avg := paletteUsage(img)
	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:       geom.Width,
			Height:      geom.Height,
			PaddedWidth: geom.PaddedWidth,
			Size:        src.Size,
			Hash:        hasher.ContentHash(data, 16),
		},
		PixelHash:    hasher.PixelHash(img, 16),
		AvgColor:     avg,
		PaletteUsage: usage,
	}

	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(j.cfg.OutputDir, keyDir), 0o755); err != nil {
			result.err = fmt.Errorf("create %s: %w", keyDir, err)
			return result
		}
	}
	nameHash := hasher.ContentHash(bmpData, hasher.NameLen)
	base := filepath.Base(src.Key)

	output := manifest.Variant{
		Format: "bmp",
		Width:  geom.Width,
		Height: geom.Height,
	}
	fileName := fmt.Sprintf("%s.%s.bmp", base, nameHash)
	onDisk := bmpData
	if j.zstd != nil {
		onDisk = j.zstd.EncodeAll(bmpData, nil)
		output.Format = "bmp+zstd"
		output.RawSize = int64(len(bmpData))
		fileName += CompressedExt
	}
	output.Path = filepath.ToSlash(filepath.Join(keyDir, fileName))
	output.Size = int64(len(onDisk))
	output.Hash = hasher.ContentHash(onDisk, 16)
	if err := os.WriteFile(filepath.Join(j.cfg.OutputDir, output.Path), onDisk, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", output.Path, err)
		return result
	}
	result.asset.Output = output

	previews, err := writePreviews(ctx, src, keyDir, img, j)
	if err != nil {
		result.err = err
		return result
	}
	result.asset.Previews = previews
	return result
}

// writePreviews renders the dithered bitmap at each preview width and format.
func writePreviews(ctx context.Context, src Source, keyDir string, img *pixel.Image, j *job) ([]manifest.Variant, error) {
	widths := j.cfg.Profile.EffectiveWidths(img.Width)
	if len(j.previews) == 0 || len(widths) == 0 || img.Height == 0 {
		return nil, nil
	}

	var variants []manifest.Variant
	for _, pw := range widths {
		resized, err := RenderPreview(img, j.dither.Palette, pw, j.cfg.Profile.Filter)
		if err != nil {
			return nil, err
		}
		w, h := resized.Bounds().Dx(), resized.Bounds().Dy()

		for _, format := range j.previews {
			enc := j.registry.Get(format)
			data, err := enc.Encode(resized, j.cfg.Profile.Quality)
			if err != nil {
				j.log.WarnContext(ctx, "preview encode failed", "format", format, "width", w, "height", h, "error", err)
				continue
			}

			contentHash := hasher.ContentHash(data, 16)
			fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
				filepath.Base(src.Key), w, h, contentHash[:hasher.NameLen], enc.Extension())
			relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))
			if err := os.WriteFile(filepath.Join(j.cfg.OutputDir, relPath), data, 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", relPath, err)
			}

			variants = append(variants, manifest.Variant{
				Format: enc.Format(),
				Width:  w,
				Height: h,
				Size:   int64(len(data)),
				Hash:   contentHash,
				Path:   relPath,
			})
		}
	}
	return variants, nil
}

// paletteUsage counts output pixels per colour and averages them.
func paletteUsage(img *pixel.Image) (map[string]int, *[3]uint8) {
	counts := map[quantize.Color]int{}
	for _, v := range pixel.Expand(img) {
		counts[quantize.RGB(pixel.SplitBGR(v))]++
	}

	usage := make(map[string]int, len(counts))
	var rSum, gSum, bSum uint64
	for c, n := range counts {
		usage[c.Hex()] = n
		rSum += uint64(c.R()) * uint64(n)
		gSum += uint64(c.G()) * uint64(n)
		bSum += uint64(c.B()) * uint64(n)
	}
	if img.Len() == 0 {
		return usage, nil
	}
	count := uint64(img.Len())
	return usage, &[3]uint8{uint8(rSum / count), uint8(gSum / count), uint8(bSum / count)}
}
