package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bmpdither/internal/bayer"
)

var bayerDim int

var bayerCmd = &cobra.Command{
	Use:   "bayer",
	Short: "Print a Bayer threshold matrix",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := bayer.Generate(bayerDim)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		width := len(strconv.Itoa(m.Max()))
		for y := 0; y < m.Dim; y++ {
			row := make([]string, m.Dim)
			for x := range row {
				row[x] = fmt.Sprintf("%*d", width, m.At(x, y))
			}
			fmt.Fprintln(w, strings.Join(row, " "))
		}
		fmt.Fprintf(w, "offset %.1f\n", m.Offset())
		return nil
	},
}

func init() {
	bayerCmd.Flags().IntVar(&bayerDim, "dim", 4, "matrix size, power of two >= 2")
	rootCmd.AddCommand(bayerCmd)
}
