package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/bmpdither/internal/hasher"
)

// Validate checks the manifest against the files under baseDir and returns
// one message per problem found. Hashes are only recomputed when checkHashes
// is set.
func Validate(m *Manifest, baseDir string, checkHashes bool) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]string{}
	// empty is set for the output of a bitmap with no pixels.
	checkFile := func(key, what string, v Variant, empty bool) {
		if v.Format == "" {
			errs = append(errs, fmt.Sprintf("asset %q %s: empty format", key, what))
		}
		if v.Width < 0 || v.Height < 0 || !empty && (v.Width == 0 || v.Height == 0) {
			errs = append(errs, fmt.Sprintf("asset %q %s: invalid dimensions %dx%d", key, what, v.Width, v.Height))
		}
		if v.Hash == "" {
			errs = append(errs, fmt.Sprintf("asset %q %s: missing hash", key, what))
		}
		if v.Path == "" {
			errs = append(errs, fmt.Sprintf("asset %q %s: missing path", key, what))
			return
		}
		if owner, dup := seenPaths[v.Path]; dup {
			errs = append(errs, fmt.Sprintf("asset %q %s: path %q already used by %q", key, what, v.Path, owner))
		}
		seenPaths[v.Path] = key

		fullPath := filepath.Join(baseDir, filepath.FromSlash(v.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q %s: file not found: %s", key, what, v.Path))
			return
		}
		if v.Size > 0 && info.Size() != v.Size {
			errs = append(errs, fmt.Sprintf("asset %q %s: size mismatch: manifest=%d, disk=%d", key, what, v.Size, info.Size()))
		}
		if !checkHashes || v.Hash == "" {
			return
		}
		f, err := os.Open(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q %s: %v", key, what, err))
			return
		}
		defer f.Close()
		sum, err := hasher.ContentHashReader(f, len(v.Hash))
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q %s: hash: %v", key, what, err))
		} else if sum != v.Hash {
			errs = append(errs, fmt.Sprintf("asset %q %s: hash mismatch: manifest=%s, disk=%s", key, what, v.Hash, sum))
		}
	}

	for key, a := range m.Assets {
		empty := a.Original.Width == 0 || a.Original.Height == 0
		if a.Original.Width < 0 || a.Original.Height < 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, a.Original.Width, a.Original.Height))
		}
		if empty && len(a.Previews) > 0 {
			errs = append(errs, fmt.Sprintf("asset %q: previews of an empty %dx%d bitmap",
				key, a.Original.Width, a.Original.Height))
		}
		if a.Output.Width != a.Original.Width || a.Output.Height != a.Original.Height {
			errs = append(errs, fmt.Sprintf("asset %q: output %dx%d does not match original %dx%d",
				key, a.Output.Width, a.Output.Height, a.Original.Width, a.Original.Height))
		}
		var pixels int
		for _, n := range a.PaletteUsage {
			pixels += n
		}
		if pixels != a.Original.Width*a.Original.Height {
			errs = append(errs, fmt.Sprintf("asset %q: palette usage covers %d of %d pixels",
				key, pixels, a.Original.Width*a.Original.Height))
		}
		checkFile(key, "output", a.Output, empty)
		for i, v := range a.Previews {
			checkFile(key, fmt.Sprintf("preview[%d]", i), v, false)
		}
	}

	previews := 0
	for _, a := range m.Assets {
		previews += len(a.Previews)
	}
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalPreviews != previews {
		errs = append(errs, fmt.Sprintf("stats.total_previews mismatch: %d != %d", m.Stats.TotalPreviews, previews))
	}
	return errs
}
