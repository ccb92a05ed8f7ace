package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/shop"
)

const progressBarWidth = 20

// NewStatsCmd creates the stats command: badge, points, CO2 saved and
// achievements.
func NewStatsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your eco dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			d := a.shop.Dashboard()
			switch output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), d)
			case outputNDJSON:
				return writeNDJSON(cmd.OutOrStdout(), d)
			default:
				renderDashboard(cmd.OutOrStdout(), d)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, or ndjson")
	return cmd
}

func renderDashboard(w io.Writer, d shop.Dashboard) {
	fmt.Fprintln(w, "ECO DASHBOARD")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Badge:            %s\n", d.Stats.Badge)
	fmt.Fprintf(w, "Green points:     %d\n", d.Stats.GreenPoints)
	fmt.Fprintf(w, "CO2 saved:        %.1f kg\n", d.Stats.CO2Saved)
	fmt.Fprintf(w, "Products viewed:  %d (%d%% eco-friendly)\n", d.Stats.ProductsViewed, d.EcoPercentage)

	if d.Progress.Next > 0 {
		fmt.Fprintf(w, "Next badge:       %s %d/%d\n",
			progressBar(d.Progress.Percent), d.Progress.Current, d.Progress.Next)
	} else {
		fmt.Fprintf(w, "Next badge:       %s top badge reached\n", progressBar(d.Progress.Percent))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Achievements:")
	for _, a := range d.Achievements {
		mark := " "
		if a.Unlocked {
			mark = "✓"
		}
		fmt.Fprintf(w, "  [%s] %s %s (view %d eco products)\n", mark, a.Icon, a.Name, a.Goal)
	}
}

func progressBar(percent float64) string {
	filled := int(percent / 100 * progressBarWidth)
	filled = max(0, min(filled, progressBarWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled) + "]"
}
