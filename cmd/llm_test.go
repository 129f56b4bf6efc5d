package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/filagen/internal/generator"
	"github.com/abhisek/filagen/internal/store"
)

// seedLLMHistory records two generate runs: run-a needed a second call
// after an invalid answer, run-b timed out and fell back. A third,
// unrelated purpose is billed on OpenRouter.
func seedLLMHistory(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "filagen.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	repo := st.EventRepo()
	for _, c := range []store.LLMRequestEventData{
		{Provider: "ollama", Model: "llama3.1:8b", Purpose: generator.Purpose, RunID: "run-a",
			Outcome: "invalid", ErrorMessage: "invalid preset answer: not a JSON object",
			RequestBody: "[user]\nFilament name: Mystery PETG.", ResponseBody: "Sure! Here is your profile."},
		{Provider: "ollama", Model: "llama3.1:8b", Purpose: generator.Purpose, RunID: "run-a",
			Outcome: "ok", Success: true, InputTokens: 120, OutputTokens: 60, ResponseBody: `{"nozzle_temp":245}`},
		{Provider: "ollama", Model: "llama3.1:8b", Purpose: generator.Purpose, RunID: "run-b",
			Outcome: "timeout", ErrorMessage: "context deadline exceeded"},
		{Provider: "openrouter", Model: "mistralai/mixtral-8x7b", Purpose: "other",
			Outcome: "ok", Success: true, InputTokens: 500},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "other",
			Outcome: "ok", Success: true, InputTokens: 1_000_000},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, c))
	}
	for _, p := range []store.ProfileEventData{
		{RunID: "run-a", ProfileName: "Mystery PETG", Source: sourceLLM, NozzleTemp: 245, BedTemp: 75},
		{RunID: "run-b", ProfileName: "Mystery PLA", Source: sourceHeuristic, NozzleTemp: 210, BedTemp: 60},
	} {
		require.NoError(t, repo.AppendProfile(ctx, p))
	}
	return dbPath
}

func resetLLMFlags() {
	_ = llmListCmd.Flags().Set("limit", "20")
	_ = llmListCmd.Flags().Set("purpose", generator.Purpose)
	_ = llmStatsCmd.Flags().Set("purpose", generator.Purpose)
}

// runLLM executes "filagen llm <args>" with the flags of earlier runs
// cleared.
func runLLM(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetLLMFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"llm"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetLLMFlags()
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLLMList_ShowsOutcomeAndProfile(t *testing.T) {
	dbPath := seedLLMHistory(t)

	out, err := runLLM(t, "list", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "Mystery PETG (llm)")
	assert.Contains(t, out, "Mystery PLA (heuristic)")
	assert.NotContains(t, out, "gpt-4o-mini", "other purposes are hidden by default")
}

func TestLLMList_PurposeAndLimit(t *testing.T) {
	dbPath := seedLLMHistory(t)

	out, err := runLLM(t, "list", "--db", dbPath, "--purpose", "all", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "mistralai/mixtral-8x7b")
	assert.NotContains(t, out, "llama3.1:8b")

	out, err = runLLM(t, "list", "--db", dbPath, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout")
	assert.NotContains(t, out, "invalid")
}

func TestLLMList_Empty(t *testing.T) {
	out, err := runLLM(t, "list", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM calls recorded.")
}

func TestLLMView(t *testing.T) {
	dbPath := seedLLMHistory(t)

	out, err := runLLM(t, "view", "1", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Model:     llama3.1:8b (ollama)")
	assert.Contains(t, out, "Outcome:   invalid")
	assert.Contains(t, out, "Error:     invalid preset answer: not a JSON object")
	assert.Contains(t, out, "Profile:   Mystery PETG (llm, nozzle 245, bed 75)")
	assert.Contains(t, out, "Filament name: Mystery PETG.")
	assert.Contains(t, out, "Sure! Here is your profile.")

	out, err = runLLM(t, "view", "4", "--db", dbPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "Profile:")
	assert.Contains(t, out, "(not captured)")
}

func TestLLMView_Errors(t *testing.T) {
	dbPath := seedLLMHistory(t)

	_, err := runLLM(t, "view", "99", "--db", dbPath)
	assert.ErrorContains(t, err, "LLM call 99 not found")

	_, err = runLLM(t, "view", "first", "--db", dbPath)
	assert.ErrorContains(t, err, `invalid ID "first"`)
}

func TestLLMStats(t *testing.T) {
	dbPath := seedLLMHistory(t)

	out, err := runLLM(t, "stats", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Outcomes (material-gen)")
	assert.Regexp(t, `invalid\s+1\n`, out)
	assert.Regexp(t, `ok\s+1\n`, out)
	assert.Regexp(t, `timeout\s+1\n`, out)
	assert.Regexp(t, `Answered by the LLM\s+1\n`, out)
	assert.Regexp(t, `Fell back to heuristics\s+1\n`, out)
	assert.Contains(t, out, "$0.15")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mistralai/mixtral-8x7b")

	out, err = runLLM(t, "stats", "--db", dbPath, "-p", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Outcomes (all purposes)")
	assert.Regexp(t, `ok\s+3\n`, out)
}

func TestLLMStats_Empty(t *testing.T) {
	out, err := runLLM(t, "stats", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM usage recorded yet.")
}
