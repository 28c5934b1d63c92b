package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bmpdither/internal/bmp"
	"github.com/AnyUserName/bmpdither/internal/hasher"
	"github.com/AnyUserName/bmpdither/internal/pipeline"
)

var probeJSON bool

var probeCmd = &cobra.Command{
	Use:   "probe <file.bmp>",
	Short: "Print the headers and geometry of a bitmap",
	Long: `Prints the file header, info header and payload geometry of a bitmap.
Build outputs stored as .bmp.zst are decompressed first.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(probeCmd)
}

// probeReport is what probe prints.
type probeReport struct {
	Path     string         `json:"path"`
	Format   string         `json:"format"`
	Size     int            `json:"size"`
	Hash     string         `json:"hash"`
	File     bmp.FileHeader `json:"file_header"`
	Info     bmp.InfoHeader `json:"info_header"`
	Geometry bmp.Geometry   `json:"geometry"`
	Payload  int            `json:"payload_size"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := pipeline.ReadOutput(path)
	if err != nil {
		return err
	}

	r := bytes.NewReader(data)
	format, err := bmp.Probe(r)
	if err != nil {
		return err
	}
	if format != bmp.FormatBMP {
		return fmt.Errorf("%s: %w", path, bmp.ErrUnsupportedFormat)
	}
	fh, ih, err := bmp.ReadHeaders(r)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	g := bmp.ImageGeometry(ih)
	rep := probeReport{
		Path:     path,
		Format:   format.String(),
		Size:     len(data),
		Hash:     hasher.ContentHash(data, 16),
		File:     fh,
		Info:     ih,
		Geometry: g,
		Payload:  g.PayloadSize(),
	}

	w := cmd.OutOrStdout()
	if probeJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(w, "  %s (%s, %s, xxhash %s)\n", rep.Path, rep.Format, formatBytes(int64(rep.Size)), rep.Hash)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  File header:")
	fmt.Fprintf(w, "    signature        %q\n", fh.Signature[:])
	fmt.Fprintf(w, "    file size        %d\n", fh.FileSize)
	fmt.Fprintf(w, "    reserved         %d %d\n", fh.Reserved1, fh.Reserved2)
	fmt.Fprintf(w, "    payload offset   %d\n", fh.Offset)
	fmt.Fprintln(w, "  Info header:")
	fmt.Fprintf(w, "    header size      %d\n", ih.Size)
	fmt.Fprintf(w, "    width x height   %d x %d\n", ih.Width, ih.Height)
	fmt.Fprintf(w, "    planes           %d\n", ih.Planes)
	fmt.Fprintf(w, "    bits per pixel   %d\n", ih.BitCount)
	fmt.Fprintf(w, "    compression      %d\n", ih.Compression)
	fmt.Fprintf(w, "    image size       %d\n", ih.ImageSize)
	fmt.Fprintf(w, "    resolution       %d x %d px/m\n", ih.XPelsPerMeter, ih.YPelsPerMeter)
	fmt.Fprintf(w, "    colours          %d used, %d important\n", ih.ColorsUsed, ih.ColorsImportant)
	fmt.Fprintln(w, "  Geometry:")
	fmt.Fprintf(w, "    padded width     %d\n", g.PaddedWidth)
	fmt.Fprintf(w, "    stride           %d bytes\n", g.Stride)
	fmt.Fprintf(w, "    payload          %d bytes\n", rep.Payload)
	return nil
}
