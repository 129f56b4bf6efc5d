package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/filagen/internal/ui/theme"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the material presets available to --material",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return fmt.Errorf("load presets: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("%d material presets", cat.Len())))
		fmt.Fprintf(out, "%-10s  %-20s  %6s  %4s  %-11s  %5s  %-9s  %5s\n",
			"Key", "Name", "Nozzle", "Bed", "Fan", "Flow", "Retract", "PA")
		fmt.Fprintln(out, strings.Repeat("─", 86))

		for _, key := range cat.Keys() {
			p, _ := cat.Lookup(key)
			fmt.Fprintf(out, "%-10s  %-20s  %6d  %4d  %-11s  %5.2f  %-9s  %5.2f\n",
				key,
				truncate(p.Name, 20),
				p.NozzleTemp,
				p.BedTemp,
				fmt.Sprintf("%d (%d-%d)", p.FanSpeed, p.FanSpeedMin, p.FanSpeedMax),
				p.FlowRatio,
				fmt.Sprintf("%.1f@%d", p.RetractionLength, p.RetractionSpeed),
				p.DefaultPressureAdvance,
			)
		}
		return nil
	},
}
