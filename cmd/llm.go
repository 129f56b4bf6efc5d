package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/filagen/internal/generator"
	"github.com/abhisek/filagen/internal/llm"
	"github.com/abhisek/filagen/internal/store"
)

// allPurposes disables the --purpose filter.
const allPurposes = "all"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM calls made while generating new materials",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls and the profiles they produced",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Limit: limit, Purpose: purposeFilter(cmd)})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM calls recorded.")
			return nil
		}

		profiles, err := repo.ProfilesByRun(ctx, runIDs(events))
		if err != nil {
			return fmt.Errorf("query profiles: %w", err)
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-24s  %5s  %5s  %6s  %-12s  %s\n",
			"ID", "Time", "Model", "In", "Out", "Ms", "Outcome", "Profile")
		fmt.Fprintln(out, strings.Repeat("─", 100))

		for _, e := range events {
			fmt.Fprintf(out, "%-5d  %-16s  %-24s  %5d  %5d  %6d  %-12s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(e.Model, 24),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				outcomeOf(e),
				profileLabel(profiles, e.RunID),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and answer of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		e, err := repo.GetLLMEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("LLM call %d not found", id)
		}
		profiles, err := repo.ProfilesByRun(ctx, runIDs([]store.LLMRequestEvent{*e}))
		if err != nil {
			return fmt.Errorf("query profiles: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Model:     %s (%s)\n", e.Model, e.Provider)
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Outcome:   %s\n", outcomeOf(*e))
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}
		if p, ok := profiles[e.RunID]; ok {
			fmt.Fprintf(out, "Profile:   %s (%s, nozzle %d, bed %d)\n", p.ProfileName, p.Source, p.NozzleTemp, p.BedTemp)
			if p.OutputPath != "" {
				fmt.Fprintf(out, "           %s\n", p.OutputPath)
			}
		}

		section(out, "PROMPT", e.RequestBody)
		section(out, "ANSWER", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show LLM token usage, outcomes and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		out := cmd.OutOrStdout()

		usage, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintln(out, "Usage by Purpose")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, u := range usage {
			fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
				u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		}

		purpose := purposeFilter(cmd)
		if err := printOutcomes(cmd, repo, purpose); err != nil {
			return err
		}
		if err := printRunSources(cmd, repo, purpose); err != nil {
			return err
		}

		modelUsage, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printCost(out, modelUsage)
		return nil
	},
}

func printOutcomes(cmd *cobra.Command, repo store.EventRepo, purpose string) error {
	outcomes, err := repo.LLMOutcomes(cmd.Context(), purpose)
	if err != nil {
		return fmt.Errorf("query outcomes: %w", err)
	}
	if len(outcomes) == 0 {
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Outcomes (%s)\n", purposeLabel(purpose))
	fmt.Fprintln(out, strings.Repeat("─", 72))
	for _, o := range outcomes {
		name := o.Outcome
		if name == "" {
			name = "unrecorded"
		}
		fmt.Fprintf(out, "%-16s  %6d\n", name, o.Calls)
	}
	return nil
}

// printRunSources shows how many LLM-backed generate runs kept the LLM
// answer and how many fell back to the heuristic generator.
func printRunSources(cmd *cobra.Command, repo store.EventRepo, purpose string) error {
	sources, err := repo.RunSources(cmd.Context(), purpose)
	if err != nil {
		return fmt.Errorf("query run sources: %w", err)
	}
	if len(sources) == 0 {
		return nil
	}

	var answered, fellBack int
	for _, s := range sources {
		switch s.Source {
		case sourceLLM:
			answered += s.Profiles
		case sourceHeuristic:
			fellBack += s.Profiles
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Generate Runs")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	fmt.Fprintf(out, "%-24s  %6d\n", "Answered by the LLM", answered)
	fmt.Fprintf(out, "%-24s  %6d\n", "Fell back to heuristics", fellBack)
	return nil
}

func printCost(out io.Writer, usage []store.ModelUsage) {
	if len(usage) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Estimated Cost (USD)")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(out, strings.Repeat("─", 72))

	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := llm.LookupCost(u.Provider, u.Model)
		if cost == nil {
			unpriced = append(unpriced, u.Model)
			fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(out, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func purposeFilter(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("purpose")
	if p == allPurposes {
		return ""
	}
	return p
}

func purposeLabel(purpose string) string {
	if purpose == "" {
		return "all purposes"
	}
	return purpose
}

// outcomeOf reads the stored outcome. Events written before outcomes
// were recorded only carry the success flag.
func outcomeOf(e store.LLMRequestEvent) string {
	switch {
	case e.Outcome != "":
		return e.Outcome
	case e.Success:
		return string(llm.OutcomeOK)
	}
	return "failed"
}

func runIDs(events []store.LLMRequestEvent) []string {
	var ids []string
	for _, e := range events {
		if e.RunID != "" {
			ids = append(ids, e.RunID)
		}
	}
	return ids
}

func profileLabel(profiles map[string]store.ProfileEvent, runID string) string {
	p, ok := profiles[runID]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", truncate(p.ProfileName, 24), p.Source)
}

func section(out io.Writer, title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(out)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(out, body)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	for _, c := range []*cobra.Command{llmListCmd, llmStatsCmd} {
		c.Flags().StringP("purpose", "p", generator.Purpose, `Purpose label to show ("all" for every purpose)`)
	}

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
