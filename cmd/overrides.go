package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/AnyUserName/bmpdither/internal/profile"
	"github.com/AnyUserName/bmpdither/internal/quantize"
)

// ditherFlags are the profile overrides shared by dither and build.
type ditherFlags struct {
	profile   string
	profiles  string
	dim       int
	palette   string
	colors    []string
	threshold float64
}

func (f *ditherFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.profile, "profile", "p", profile.DefaultName, "dithering profile")
	fs.StringVar(&f.profiles, "profiles", "", "YAML file with extra profiles")
	fs.IntVar(&f.dim, "dim", 0, "Bayer matrix size, power of two (0 = profile default)")
	fs.StringVar(&f.palette, "palette", "", fmt.Sprintf("named palette %v (overrides profile)", quantize.Names()))
	fs.StringSliceVar(&f.colors, "colors", nil, "custom palette as hex colours, e.g. 000000,FF8000,FFFFFF")
	fs.Float64Var(&f.threshold, "threshold", 0, "threshold scale for all channels (0 = 256/dim)")
}

// apply overrides p with the flags that were set.
func (f *ditherFlags) apply(p *profile.Profile) error {
	if f.dim != 0 {
		p.Dim = f.dim
		p.Thresholds = [3]float64{}
	}
	switch {
	case f.palette != "" && len(f.colors) > 0:
		return fmt.Errorf("--palette and --colors are exclusive")
	case f.palette != "":
		pal, err := quantize.Named(f.palette)
		if err != nil {
			return err
		}
		p.Palette, p.PaletteName = pal, f.palette
	case len(f.colors) > 0:
		pal, err := quantize.ParsePalette(f.colors)
		if err != nil {
			return err
		}
		p.Palette, p.PaletteName = pal, ""
	}
	if f.threshold != 0 {
		p.Thresholds = [3]float64{f.threshold, f.threshold, f.threshold}
	}
	_, err := p.Config()
	return err
}
