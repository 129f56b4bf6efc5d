package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/filagen/internal/logging"
	"github.com/abhisek/filagen/internal/material"
	"github.com/abhisek/filagen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "filagen",
	Short: "OrcaSlicer filament profile generator for the Creality K1C",
	Long: "filagen builds OrcaSlicer filament profiles for the Creality K1C, either by\n" +
		"tuning a built-in material preset or by generating a preset for a new\n" +
		"filament from heuristics or a local LLM.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		logging.SetDefault(level)
	},
	RunE: runGenerate,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FILAGEN_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL env var)")
	rootCmd.PersistentFlags().String("presets", "", "YAML file with extra material presets (overrides FILAGEN_PRESETS env var)")

	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then FILAGEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadCatalog returns the built-in presets merged with the --presets file,
// or FILAGEN_PRESETS when the flag is unset.
func loadCatalog(cmd *cobra.Command) (*material.Catalog, error) {
	path, _ := cmd.Flags().GetString("presets")
	if path == "" {
		path = os.Getenv("FILAGEN_PRESETS")
	}
	return material.LoadCatalog(path)
}
