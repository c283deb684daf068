package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tableheatmap/pkg/palette"
)

// palettesCommand creates the palettes command.
func (c *CLI) palettesCommand() *cobra.Command {
	var kind string
	var buckets int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "Show the ColorBrewer palettes usable as general.colorbrewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := filterPalettes(palette.Catalogue(), kind)
			if asJSON {
				return printJSON(infos)
			}
			for _, info := range infos {
				n := info.Max
				if buckets > 0 {
					n = buckets
				}
				printPalette(info, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only sequential, diverging or qualitative palettes")
	cmd.Flags().IntVar(&buckets, "buckets", 0, "show the palettes at this class count (default the largest)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func filterPalettes(infos []palette.Info, kind string) []palette.Info {
	if kind == "" {
		return infos
	}
	var out []palette.Info
	for _, info := range infos {
		if strings.EqualFold(string(info.Kind), kind) {
			out = append(out, info)
		}
	}
	return out
}

// printPalette prints one palette as a row of swatches. A class count
// the palette does not define shows the fallback the chart would use.
func printPalette(info palette.Info, buckets int) {
	name, n := palette.Resolve(info.Name, buckets)
	var b strings.Builder
	for _, c := range palette.Colors(info.Name, buckets) {
		b.WriteString(swatch(c, "   "))
	}
	label := fmt.Sprintf("%-9s %-12s %d-%d", info.Name, info.Kind, info.Min, info.Max)
	line := StyleValue.Render(label) + "  " + b.String()
	if name != info.Name || n != buckets {
		line += "  " + StyleDim.Render(fmt.Sprintf("%s %s/%d", iconArrow, name, n))
	}
	fmt.Fprintln(out, line)
}
