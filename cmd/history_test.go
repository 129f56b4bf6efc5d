package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/filagen/internal/store"
)

func TestHistory_FiltersBySourceBeforeLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "filagen.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	repo := st.EventRepo()
	require.NoError(t, repo.AppendProfile(ctx, store.ProfileEventData{ProfileName: "Old LLM", Source: sourceLLM, NozzleTemp: 240}))
	for _, name := range []string{"Catalog A", "Catalog B", "Catalog C"} {
		require.NoError(t, repo.AppendProfile(ctx, store.ProfileEventData{ProfileName: name, Source: sourceCatalog, NozzleTemp: 210}))
	}
	require.NoError(t, st.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"history", "--db", dbPath, "--source", sourceLLM, "--limit", "1"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		_ = historyCmd.Flags().Set("source", "")
		_ = historyCmd.Flags().Set("limit", "20")
	})
	require.NoError(t, rootCmd.ExecuteContext(ctx))

	assert.Contains(t, out.String(), "Old LLM")
	assert.NotContains(t, out.String(), "Catalog")
}

func TestPresets_ListsBuiltins(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"presets"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "PLA K1C")
	assert.Contains(t, out.String(), "PETG K1C")
}
