// Package cli is the cobra command surface: generate a song to disk, serve
// generation over HTTP, or write a starter configuration file.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/procsynth/config"
	"github.com/lixenwraith/procsynth/midifile"
	"github.com/lixenwraith/procsynth/render"
	"github.com/lixenwraith/procsynth/server"
)

var version = "0.1.0"

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "procsynth",
	Short: "Procedurally generate multi-track music as MIDI or WAV",
	Long: `Procsynth generates short multi-track pieces from a seed: scale-constrained
melody, bass, chords, and drums, assembled to an exact length and exported
as a Standard MIDI File or rendered to WAV.

Same seed and configuration always produce the same output.`,
	Version: version,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a song and write it to disk",
	Long: `Generate a song from a configuration file, defaults, or flags.

Examples:
  procsynth generate --seed 42 --tempo 120 --duration 30
  procsynth generate --config song.json --wav
  procsynth generate --key-root F# --key-mode dorian -o fsharp-dorian`,
	RunE: runGenerate,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generation over HTTP",
	Long: `Start an HTTP server with a POST /generate endpoint accepting
configuration JSON and returning MIDI or WAV.

Example:
  procsynth serve --port 8080`,
	RunE: runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var (
	configPath string
	seed       int64
	tempo      float64
	duration   float64
	keyRoot    string
	keyMode    string
	swing      float64
	outputName string
	wantWAV    bool
	noMIDI     bool
	servePort  int
)

func init() {
	gf := generateCmd.Flags()
	gf.StringVarP(&configPath, "config", "c", "", "configuration file path")
	gf.Int64Var(&seed, "seed", 0, "generation seed (0 keeps config value)")
	gf.Float64Var(&tempo, "tempo", 0, "tempo in BPM")
	gf.Float64Var(&duration, "duration", 0, "target duration in seconds")
	gf.StringVar(&keyRoot, "key-root", "", "key root, e.g. C, F#, Bb")
	gf.StringVar(&keyMode, "key-mode", "", "mode, e.g. major, minor, dorian")
	gf.Float64Var(&swing, "swing", -1, "swing amount in [0, 1]")
	gf.StringVarP(&outputName, "output", "o", "", "output base name (default: generated)")
	gf.BoolVar(&wantWAV, "wav", false, "also render a WAV file")
	gf.BoolVar(&noMIDI, "no-midi", false, "skip the MIDI file")

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "listen port")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(generateCmd, serveCmd, configCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	start := time.Now()
	song, err := config.Build(cfg)
	if err != nil {
		return err
	}
	logger.Info("song assembled",
		"seed", cfg.Seed,
		"tempo", cfg.TempoBPM,
		"beats", song.Budget,
		"tracks", len(song.Tracks),
		"elapsed", time.Since(start))

	base := cfg.Output.Name
	if base == "" {
		base = uuid.NewString()
	}

	if cfg.Output.MIDI {
		path := filepath.Join(cfg.Output.Directory, base+".mid")
		if err := midifile.WriteFile(path, song, cfg.PPQ); err != nil {
			return fmt.Errorf("write midi: %w", err)
		}
		logger.Info("wrote midi", "path", path)
	}

	if cfg.Output.WAV {
		path := filepath.Join(cfg.Output.Directory, base+".wav")
		if err := render.WriteFile(path, song, render.DefaultOptions()); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
		logger.Info("wrote wav", "path", path)
	}
	return nil
}

// applyFlags overlays explicitly set flags onto the loaded config
func applyFlags(cfg *config.Config) {
	if seed != 0 {
		cfg.Seed = seed
	}
	if tempo > 0 {
		cfg.TempoBPM = tempo
	}
	if duration > 0 {
		cfg.DurationSeconds = duration
	}
	if keyRoot != "" {
		cfg.Key.Root = keyRoot
	}
	if keyMode != "" {
		cfg.Key.Mode = keyMode
	}
	if swing >= 0 {
		cfg.Swing = swing
	}
	if outputName != "" {
		cfg.Output.Name = outputName
	}
	if wantWAV {
		cfg.Output.WAV = true
	}
	if noMIDI {
		cfg.Output.MIDI = false
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	return server.New(server.Options{Port: servePort}).Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "procsynth.json"
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("wrote default configuration to %s\n", path)
	return nil
}
