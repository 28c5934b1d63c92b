// Package pipeline dithers every bitmap under a directory and records the
// results in a manifest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/AnyUserName/bmpdither/internal/encoder"
	"github.com/AnyUserName/bmpdither/internal/logging"
	"github.com/AnyUserName/bmpdither/internal/manifest"
	"github.com/AnyUserName/bmpdither/internal/profile"
)

// ErrNoBitmaps is returned when the input holds nothing to process.
var ErrNoBitmaps = errors.New("no bitmaps found")

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	Compress  bool         // write outputs as .bmp.zst
	Logger    *slog.Logger // defaults to slog.Default()
}

// Pipeline orchestrates bitmap processing.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	log      *slog.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		log:      log,
	}
}

// Run executes the full build and returns the manifest. Failures of single
// files are logged and tolerated unless every bitmap fails.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	runID := uuid.NewString()
	ctx = logging.AppendCtx(ctx, slog.String("run_id", runID))

	j, err := p.prepare()
	if err != nil {
		return nil, err
	}
	if j.zstd != nil {
		defer j.zstd.Close()
	}
	p.log.DebugContext(ctx, p.registry.String())

	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoBitmaps, p.cfg.InputDir)
	}
	p.log.DebugContext(ctx, "scanned input", "dir", p.cfg.InputDir, "files", len(sources))

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = processResult{key: s.Key, err: err}
				return
			}
			actx := logging.AppendCtx(ctx, slog.String("asset", s.Key))
			p.log.DebugContext(actx, "processing")

			results[idx] = processImage(actx, s, j)

			if r := results[idx]; r.err == nil && !r.skipped {
				p.log.DebugContext(actx, "done", "previews", len(r.asset.Previews), "bytes", r.asset.Output.Size)
			}
		}(i, src)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	var skipped int
	for _, r := range results {
		switch {
		case r.skipped:
			skipped++
		case r.err != nil:
			errs = append(errs, r.err)
		default:
			m.Assets[r.key] = r.asset
		}
	}

	processed := len(sources) - skipped
	if processed == 0 {
		return nil, fmt.Errorf("%w in %s (%d files skipped)", ErrNoBitmaps, p.cfg.InputDir, skipped)
	}
	if len(errs) > 0 {
		for _, e := range errs {
			p.log.ErrorContext(ctx, "bitmap failed", "error", e)
		}
		if len(errs) == processed {
			return nil, fmt.Errorf("all %d bitmaps failed to process: %w", len(errs), errors.Join(errs...))
		}
		p.log.WarnContext(ctx, "partial failure", "failed", len(errs), "total", processed)
	}

	m.BuildInfo = &manifest.BuildInfo{
		RunID:       runID,
		Workers:     p.cfg.Workers,
		Dim:         j.dither.Dim,
		Palette:     p.cfg.Profile.PaletteName,
		PaletteSize: len(j.dither.Palette),
		Thresholds:  j.dither.Thresholds,
	}
	if j.zstd != nil {
		m.BuildInfo.Compression = "zstd"
	}
	m.Stats.SkippedUnknown = skipped
	m.ComputeStats()
	return m, nil
}

// prepare resolves the profile into the shared job state, failing before any
// file is touched.
func (p *Pipeline) prepare() (*job, error) {
	dcfg, err := p.cfg.Profile.Config()
	if err != nil {
		return nil, err
	}
	previews, err := p.registry.ResolveFormats(p.cfg.Profile.Previews)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.cfg.Profile.Name, err)
	}
	if _, err := resolveFilter(p.cfg.Profile.Filter); err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.cfg.Profile.Name, err)
	}

	j := &job{
		cfg:      p.cfg,
		dither:   dcfg,
		previews: previews,
		registry: p.registry,
		log:      p.log,
	}
	if p.cfg.Compress {
		if j.zstd, err = newCompressor(); err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
	}
	return j, nil
}
