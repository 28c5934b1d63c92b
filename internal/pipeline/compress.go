package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt is appended to outputs written with Config.Compress.
const CompressedExt = ".zst"

// decoder is safe for concurrent DecodeAll calls.
var decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))

// newCompressor returns an encoder for concurrent EncodeAll calls.
func newCompressor() (*zstd.Encoder, error) {
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
}

// ReadOutput returns the bitmap bytes of a build output, decompressing
// .zst files.
func ReadOutput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedExt) {
		return data, nil
	}
	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd %s: %w", path, err)
	}
	return out, nil
}
