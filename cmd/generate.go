package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/filagen/internal/generator"
	"github.com/abhisek/filagen/internal/hint"
	"github.com/abhisek/filagen/internal/llm"
	"github.com/abhisek/filagen/internal/material"
	"github.com/abhisek/filagen/internal/profile"
	"github.com/abhisek/filagen/internal/store"
	"github.com/abhisek/filagen/internal/tuning"
	"github.com/abhisek/filagen/internal/ui/theme"
	"github.com/abhisek/filagen/internal/ui/wizard"
)

// Hint fallbacks for new materials when the user gives nothing usable.
const (
	defaultNozzleHint   = 210
	defaultBedHint      = 60
	defaultMaterialName = "Custom"
	defaultOutputDir    = "out_profiles"
)

// Profile sources recorded in the history.
const (
	sourceCatalog   = "catalog"
	sourceHeuristic = "heuristic"
	sourceLLM       = "llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an OrcaSlicer filament profile",
	Example: `  filagen generate --name "Fast PLA" --material pla --temp 215
  filagen generate --name "My PLA-CF" --ai-new --material-name PLA-CF --nozzle 220-240
  filagen generate --name "Mystery PETG" --ai-new --use-llm --fallback-heuristic`,
	RunE: runGenerate,
}

func addGenerateFlags(c *cobra.Command) {
	f := c.Flags()
	f.String("name", "", "Profile name")
	f.String("material", material.DefaultKey, "Catalog material preset")
	f.Float64("pressure-advance", 0, "Pressure advance override (0.0-0.2)")
	f.Bool("ai-new", false, "Create a new material preset instead of using the catalog")
	f.Bool("use-llm", false, "Ask the configured LLM for the new material preset")
	f.Bool("use-ollama", false, "Alias for --use-llm")
	_ = f.MarkHidden("use-ollama")
	f.String("material-name", "", "New material name, e.g. PLA-CF or ABS+ (with --ai-new)")
	f.String("nozzle", "", "Suggested nozzle temperature or range, e.g. 190-230 (with --ai-new)")
	f.String("bed", "", "Suggested bed temperature or range, e.g. 50-80 (with --ai-new)")
	f.String("cooling", "", "Cooling level: low, medium or high (with --ai-new)")
	f.String("temp", "", "Nozzle temperature to tune the catalog preset for")
	f.StringP("output", "o", defaultOutputDir, "Output directory")
	f.Bool("no-input", false, "Never prompt; fail if a required value is missing")
	f.Bool("fallback-heuristic", false, "Use the heuristic generator if the LLM fails")
	f.Bool("dry-run", false, "Print the profile instead of writing it")
}

// generateOptions holds the per-run inputs from flags and the wizard.
type generateOptions struct {
	Name            string
	Material        string
	PressureAdvance *float64
	AINew           bool
	UseLLM          bool
	MaterialName    string
	Nozzle          string
	Bed             string
	Cooling         string
	Temp            string
	OutputDir       string
	NoInput         bool
	Fallback        bool
	DryRun          bool

	// set reports which of the optional inputs were given on the
	// command line.
	set map[string]bool
}

func optionsFromFlags(cmd *cobra.Command) generateOptions {
	f := cmd.Flags()
	opts := generateOptions{set: map[string]bool{}}

	opts.Name, _ = f.GetString("name")
	opts.Material, _ = f.GetString("material")
	opts.AINew, _ = f.GetBool("ai-new")
	useLLM, _ := f.GetBool("use-llm")
	useOllama, _ := f.GetBool("use-ollama")
	opts.UseLLM = useLLM || useOllama
	opts.MaterialName, _ = f.GetString("material-name")
	opts.Nozzle, _ = f.GetString("nozzle")
	opts.Bed, _ = f.GetString("bed")
	opts.Cooling, _ = f.GetString("cooling")
	opts.Temp, _ = f.GetString("temp")
	opts.OutputDir, _ = f.GetString("output")
	opts.NoInput, _ = f.GetBool("no-input")
	opts.Fallback, _ = f.GetBool("fallback-heuristic")
	opts.DryRun, _ = f.GetBool("dry-run")

	if f.Changed("pressure-advance") {
		pa, _ := f.GetFloat64("pressure-advance")
		opts.PressureAdvance = &pa
	}
	for _, name := range []string{"material-name", "nozzle", "bed", "cooling", "temp"} {
		opts.set[name] = f.Changed(name)
	}
	opts.Name = strings.TrimSpace(opts.Name)
	opts.Material = strings.ToLower(strings.TrimSpace(opts.Material))
	return opts
}

// questions lists what still has to be asked for opts.
func (o generateOptions) questions(cat *material.Catalog) []wizard.Question {
	var qs []wizard.Question
	if o.Name == "" {
		qs = append(qs, wizard.Question{Key: "name", Prompt: "Profile name", Required: true})
	}

	if o.AINew {
		if !o.set["material-name"] {
			qs = append(qs, wizard.Question{
				Key: "material-name", Prompt: "Material (e.g. PLA-CF, ABS+)", Default: defaultMaterialName,
			})
		}
		if !o.set["nozzle"] {
			qs = append(qs, wizard.Question{
				Key: "nozzle", Prompt: "Suggested nozzle temperature", Placeholder: "e.g. 190-230", Temperature: true,
			})
		}
		if !o.set["bed"] {
			qs = append(qs, wizard.Question{
				Key: "bed", Prompt: "Suggested bed temperature", Placeholder: "e.g. 50-80, blank for auto", Temperature: true,
			})
		}
		if !o.set["cooling"] {
			qs = append(qs, wizard.Question{
				Key:     "cooling",
				Prompt:  "Cooling",
				Options: []string{string(generator.CoolingLow), string(generator.CoolingMedium), string(generator.CoolingHigh)},
				Default: string(generator.CoolingMedium),
			})
		}
		return qs
	}

	if _, ok := cat.Lookup(o.Material); !ok {
		qs = append(qs, wizard.Question{
			Key: "material", Prompt: "Material", Options: cat.Keys(), Default: material.DefaultKey,
		})
	}
	if !o.set["temp"] {
		qs = append(qs, wizard.Question{
			Key: "temp", Prompt: "Nozzle temperature", Placeholder: "e.g. 190-230, blank for the preset's", Temperature: true,
		})
	}
	return qs
}

// apply copies wizard answers into o.
func (o *generateOptions) apply(a wizard.Answers) {
	for key, val := range a {
		switch key {
		case "name":
			o.Name = val
		case "material":
			o.Material = val
		case "material-name":
			o.MaterialName = val
		case "nozzle":
			o.Nozzle = val
		case "bed":
			o.Bed = val
		case "cooling":
			o.Cooling = val
		case "temp":
			o.Temp = val
		}
	}
}

// validate checks that opts can run without asking anything.
func (o generateOptions) validate(cat *material.Catalog) error {
	if o.Name == "" {
		return errors.New("a profile name is required (--name)")
	}
	if !o.AINew {
		if _, ok := cat.Lookup(o.Material); !ok {
			return fmt.Errorf("unknown material %q (available: %s)", o.Material, strings.Join(cat.Keys(), ", "))
		}
	}
	return nil
}

// generatorInput resolves the new-material hints.
func (o generateOptions) generatorInput() generator.Input {
	name := strings.TrimSpace(o.MaterialName)
	if name == "" {
		name = defaultMaterialName
	}
	return generator.Input{
		MaterialName: name,
		NozzleHint:   hint.ParseTemperature(o.Nozzle, defaultNozzleHint).Int(),
		BedHint:      hint.ParseTemperature(o.Bed, defaultBedHint).Int(),
		Cooling:      generator.ParseCooling(o.Cooling),
	}
}

// generation is the outcome of one run.
type generation struct {
	Preset          material.Preset
	Source          string
	Requested       int
	Tuned           tuning.Parameters
	PressureAdvance float64
	Filament        profile.Filament
}

// catalogGeneration tunes a catalog preset.
func catalogGeneration(o generateOptions, cat *material.Catalog) (generation, error) {
	preset, ok := cat.Lookup(o.Material)
	if !ok {
		return generation{}, fmt.Errorf("unknown material %q", o.Material)
	}
	requested := hint.ParseTemperature(o.Temp, preset.NozzleTemp).Int()
	return finish(o, preset, sourceCatalog, requested), nil
}

// newMaterialGeneration asks gen for a preset and tunes it at the nozzle
// hint.
func newMaterialGeneration(ctx context.Context, o generateOptions, gen generator.Generator, source *string) (generation, error) {
	in := o.generatorInput()
	preset, err := gen.Generate(ctx, in)
	if err != nil {
		return generation{}, err
	}
	return finish(o, preset, *source, in.NozzleHint), nil
}

func finish(o generateOptions, preset material.Preset, source string, requested int) generation {
	tuned := tuning.Tune(preset, requested)
	pa := profile.EffectivePressureAdvance(o.PressureAdvance, tuned.PressureAdvance)
	return generation{
		Preset:          preset,
		Source:          source,
		Requested:       requested,
		Tuned:           tuned,
		PressureAdvance: pa,
		Filament:        profile.Build(tuned, pa, o.Name),
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	cat, err := loadCatalog(cmd)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	opts := optionsFromFlags(cmd)
	if !opts.NoInput {
		if qs := opts.questions(cat); len(qs) > 0 {
			answers, err := wizard.Run("filagen", qs)
			if err != nil {
				return err
			}
			opts.apply(answers)
		}
	}
	if err := opts.validate(cat); err != nil {
		return err
	}

	var repo store.EventRepo
	if !opts.DryRun {
		st, err := openStore(cmd)
		if err != nil {
			slog.Warn("history disabled", "error", err)
		} else {
			defer st.Close()
			repo = st.EventRepo()
		}
	}

	// The run ID ties the LLM events of this run to its profile event.
	runID := uuid.NewString()
	ctx = llm.WithRunID(ctx, runID)

	var gen generation
	if opts.AINew {
		gen, err = generateNewMaterial(ctx, out, opts, repo)
	} else {
		gen, err = catalogGeneration(opts, cat)
	}
	if err != nil {
		return err
	}

	if opts.DryRun {
		return profile.Encode(out, gen.Filament)
	}

	path := profile.Path(opts.OutputDir, opts.Name)
	if err := profile.Write(path, gen.Filament); err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if repo != nil {
		if err := repo.AppendProfile(ctx, profileEvent(runID, gen, opts, path)); err != nil {
			slog.Warn("record profile history", "error", err)
		}
	}

	fmt.Fprintln(out, theme.Ok.Render("Profile saved: ")+path)
	fmt.Fprintln(out, theme.Hint.Render("Import into OrcaSlicer: File → Import → Import Configs, then pick the JSON file."))
	return nil
}

// generateNewMaterial builds the generator chain for --ai-new and runs it.
func generateNewMaterial(ctx context.Context, out io.Writer, opts generateOptions, repo store.EventRepo) (generation, error) {
	source := sourceHeuristic
	var gen generator.Generator = generator.NewHeuristic()

	if opts.UseLLM {
		cfg := llm.ConfigFromEnv()
		provider, err := llm.NewProvider(ctx, cfg, repo)
		if err != nil {
			if !opts.Fallback {
				return generation{}, fmt.Errorf("LLM provider: %w", err)
			}
			slog.Warn("LLM provider not configured, using heuristics", "error", err)
		} else {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf(
				"Using %s (%s), waiting for an answer...", cfg.Provider, provider.ModelID())))

			source = sourceLLM
			genCfg := generator.DefaultConfig()
			genCfg.StrictSchema = cfg.StrictOutput()
			gen = generator.NewLLM(provider, genCfg)
			if opts.Fallback {
				gen = generator.WithFallback(gen, generator.NewHeuristic(), func(error) {
					source = sourceHeuristic
				})
			}
		}
	}

	return newMaterialGeneration(ctx, opts, gen, &source)
}

func profileEvent(runID string, g generation, o generateOptions, path string) store.ProfileEventData {
	return store.ProfileEventData{
		RunID:           runID,
		ProfileName:     o.Name,
		Slug:            profile.Slugify(o.Name),
		Source:          g.Source,
		MaterialName:    g.Preset.Name,
		RequestedTemp:   g.Requested,
		NozzleTemp:      g.Tuned.NozzleTemp,
		BedTemp:         g.Tuned.BedTemp,
		FanSpeed:        g.Tuned.FanSpeed,
		FanSpeedMin:     g.Tuned.FanSpeedMin,
		FanSpeedMax:     g.Tuned.FanSpeedMax,
		FlowRatio:       g.Tuned.FlowRatio,
		PressureAdvance: g.PressureAdvance,
		OutputPath:      path,
	}
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return store.Open(dbPath)
}

func init() {
	addGenerateFlags(generateCmd)
}
