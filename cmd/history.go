package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/filagen/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		source, _ := cmd.Flags().GetString("source")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		// The source filter runs before the limit, so fetch everything then.
		opts := store.QueryOpts{Limit: limit}
		if source != "" {
			opts.Limit = 0
		}
		events, err := s.EventRepo().QueryProfiles(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query profiles: %w", err)
		}
		if source != "" {
			events = slices.DeleteFunc(events, func(e store.ProfileEvent) bool { return e.Source != source })
			if limit > 0 && len(events) > limit {
				events = events[:limit]
			}
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No profiles generated yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-24s  %-9s  %6s  %4s  %4s  %5s  %5s\n",
			"ID", "Time", "Profile", "Source", "Nozzle", "Bed", "Fan", "Flow", "PA")
		fmt.Fprintln(out, strings.Repeat("─", 96))

		for _, e := range events {
			fmt.Fprintf(out, "%-5d  %-16s  %-24s  %-9s  %6d  %4d  %4d  %5.3f  %5.2f\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(e.ProfileName, 24),
				e.Source,
				e.NozzleTemp,
				e.BedTemp,
				e.FanSpeedMax,
				e.FlowRatio,
				e.PressureAdvance,
			)
			if e.OutputPath != "" {
				fmt.Fprintf(out, "       %s\n", e.OutputPath)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of profiles to show")
	historyCmd.Flags().StringP("source", "s", "", "Filter by source (catalog, heuristic, llm)")
}
