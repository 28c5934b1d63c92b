package manifest

// FileName is the manifest written at the root of a build output directory.
const FileName = "bmpdither.manifest.json"

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// Manifest is the top-level output of a bmpdither build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures the parameters a build ran with.
type BuildInfo struct {
	RunID       string     `json:"run_id"`
	Workers     int        `json:"workers"`
	Dim         int        `json:"dim"`
	Palette     string     `json:"palette,omitempty"` // empty for custom palettes
	PaletteSize int        `json:"palette_size"`
	Thresholds  [3]float64 `json:"thresholds"`
	Compression string     `json:"compression,omitempty"` // "zstd" or empty
}

// Asset describes one source bitmap and the files generated from it.
type Asset struct {
	Original     OriginalInfo   `json:"original"`
	PixelHash    string         `json:"pixel_hash"`          // xxhash64 of the dithered samples
	AvgColor     *[3]uint8      `json:"avg_color,omitempty"` // [R,G,B] of the dithered output
	PaletteUsage map[string]int `json:"palette_usage"`       // hex colour -> pixel count
	Output       Variant        `json:"output"`
	Previews     []Variant      `json:"previews,omitempty"`
}

// OriginalInfo holds metadata about the source bitmap.
type OriginalInfo struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PaddedWidth int    `json:"padded_width"`
	Size        int64  `json:"size"`
	Hash        string `json:"hash"`
}

// Variant is one file written for an asset.
type Variant struct {
	Format  string `json:"format"` // "bmp", "bmp+zstd", "png", "jpeg"
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Size    int64  `json:"size"`               // bytes on disk
	RawSize int64  `json:"raw_size,omitempty"` // size before compression
	Hash    string `json:"hash"`               // first 16 hex chars of xxhash64 of the file
	Path    string `json:"path"`               // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	TotalPreviews    int   `json:"total_previews"`
	SkippedUnknown   int   `json:"skipped_unknown,omitempty"` // .bmp files that were not bitmaps
}
