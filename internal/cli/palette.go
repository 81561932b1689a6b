package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/config"
	"github.com/matzehuels/cellblend/pkg/points"
)

// paletteCommand prints the palette new points draw their colors from.
func (c *CLI) paletteCommand() *cobra.Command {
	var flags diagramFlags

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show the color palette",
		Long: `Show the color palette along with the distance between each color and
the next. Pairs closer than the threshold converge as soon as one of them is
clicked next to the other.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, &flags)
			if err != nil {
				return err
			}
			pal, err := resolvePalette(cfg)
			if err != nil {
				return err
			}
			fmt.Println(paletteTable(pal, cfg.Threshold))
			return nil
		},
	}
	addDiagramFlags(cmd, &flags)
	return cmd
}

func resolvePalette(cfg config.Config) (color.Palette, error) {
	gen := points.NewGenerator(cfg.Bounds(), nil, cfg.Seed)
	return cfg.ResolvePalette(gen.Rand())
}

// paletteTable renders one row per palette color with a swatch.
func paletteTable(pal color.Palette, threshold float64) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(pal))
	for i, h := range pal {
		rgb, _ := h.RGB()
		next := pal[(i+1)%len(pal)]
		d, _ := color.Distance(h, next)
		rows[i] = []string{
			strconv.Itoa(i),
			"      ",
			string(h),
			fmt.Sprintf("%3d %3d %3d", rgb.R, rgb.G, rgb.B),
			fmt.Sprintf("%6.1f", d),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Swatch", "Hex", "RGB", "Δ next").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(pal) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 1:
				return base.Background(lipgloss.Color(string(pal[row])))
			case 4:
				d, _ := color.Distance(pal[row], pal[(row+1)%len(pal)])
				if d < threshold {
					return base.Foreground(colorYellow)
				}
				return base.Foreground(colorDim)
			}
			return base
		}).
		Render()
}
