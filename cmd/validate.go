package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/bmpdither/internal/manifest"
)

var validateNoHash bool

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a manifest and check the files it references",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateNoHash, "no-hash", false, "check sizes only, skip rehashing files")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	m, path, err := manifest.Read(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	errs := manifest.Validate(m, filepath.Dir(path), !validateNoHash)
	if len(errs) == 0 {
		fmt.Fprintln(w, "  ok: manifest is valid")
		fmt.Fprintf(w, "  ok: %d assets, %d previews, all files present\n", m.Stats.TotalAssets, m.Stats.TotalPreviews)
		return nil
	}

	fmt.Fprintf(w, "  manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    - %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
