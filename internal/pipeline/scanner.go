package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/bmpdither/internal/bmp"
)

// Source represents a discovered bitmap file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension).
	Key string
	// Size is the file size in bytes.
	Size int64
}

// bitmapExtensions lists the file extensions scanned for.
var bitmapExtensions = map[string]bool{
	".bmp": true,
	".dib": true,
}

// ScanImages walks the input directory and returns all bitmap sources in
// lexical order. Hidden directories are skipped.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !bitmapExtensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}

// Probe classifies the file by its signature.
func (s Source) Probe() (bmp.Format, error) {
	f, err := os.Open(s.AbsPath)
	if err != nil {
		return bmp.FormatUnknown, fmt.Errorf("open %s: %w", s.RelPath, err)
	}
	defer f.Close()
	return bmp.Probe(f)
}
