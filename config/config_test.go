package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/midifile"
)

// TestDefaultValidates verifies the shipped defaults pass validation
func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

// TestValidateRejections verifies field bounds
func TestValidateRejections(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"TempoTooLow", func(c *Config) { c.TempoBPM = 10 }},
		{"TempoTooHigh", func(c *Config) { c.TempoBPM = 500 }},
		{"ZeroDuration", func(c *Config) { c.DurationSeconds = 0 }},
		{"ZeroPPQ", func(c *Config) { c.PPQ = 0 }},
		{"SwingOverOne", func(c *Config) { c.Swing = 1.5 }},
		{"NoRoles", func(c *Config) { c.Roles = Roles{} }},
		{"NoOutput", func(c *Config) { c.Output.MIDI = false; c.Output.WAV = false }},
		{"BadRoot", func(c *Config) { c.Key.Root = "H" }},
		{"BadMode", func(c *Config) { c.Key.Mode = "hyperlydian" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("Expected configuration error, got %v", err)
			}
		})
	}
}

// TestBudgetBeats verifies the duration-to-beats conversion
func TestBudgetBeats(t *testing.T) {
	cfg := Default()
	cfg.TempoBPM = 120
	cfg.DurationSeconds = 30
	if got := cfg.BudgetBeats(); got != 60 {
		t.Errorf("Expected 60 beats, got %f", got)
	}
}

// TestSaveLoadRoundTrip verifies file persistence
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")

	want := Default()
	want.Seed = 99
	want.Key = Key{Root: "D", Mode: "dorian"}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != 99 {
		t.Errorf("Expected seed 99, got %d", got.Seed)
	}
	if got.Key.Root != "D" || got.Key.Mode != "dorian" {
		t.Errorf("Expected D dorian, got %s %s", got.Key.Root, got.Key.Mode)
	}
}

// TestLoadEnvOverrides verifies PROCSYNTH_* variables take precedence
func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROCSYNTH_SEED", "1234")
	t.Setenv("PROCSYNTH_TEMPO", "90")
	t.Setenv("PROCSYNTH_KEY_MODE", "minor")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 1234 {
		t.Errorf("Expected seed 1234, got %d", cfg.Seed)
	}
	if cfg.TempoBPM != 90 {
		t.Errorf("Expected tempo 90, got %f", cfg.TempoBPM)
	}
	if cfg.Key.Mode != "minor" {
		t.Errorf("Expected mode minor, got %s", cfg.Key.Mode)
	}
}

// TestLoadIgnoresBadEnv verifies unparseable overrides keep prior values
func TestLoadIgnoresBadEnv(t *testing.T) {
	t.Setenv("PROCSYNTH_SEED", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != Default().Seed {
		t.Errorf("Expected default seed, got %d", cfg.Seed)
	}
}

// TestWriteDefaultRefusesOverwrite verifies init safety
func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("Expected error overwriting existing config")
	}
}

// TestBuildProducesSong verifies the pipeline end to end
func TestBuildProducesSong(t *testing.T) {
	cfg := Default()
	cfg.DurationSeconds = 10

	song, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if song.Tempo != cfg.TempoBPM {
		t.Errorf("Expected tempo %f, got %f", cfg.TempoBPM, song.Tempo)
	}
	if song.Budget != cfg.BudgetBeats() {
		t.Errorf("Expected budget %f, got %f", cfg.BudgetBeats(), song.Budget)
	}
	if len(song.Tracks) != 4 {
		t.Errorf("Expected 4 tracks, got %d", len(song.Tracks))
	}
	for _, tr := range song.Tracks {
		if len(tr.Events) == 0 {
			t.Errorf("Track %s has no events", tr.Name)
		}
	}
}

// TestBuildDeterminism verifies equal configs build identical songs
func TestBuildDeterminism(t *testing.T) {
	cfg := Default()
	cfg.DurationSeconds = 10

	a, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Tracks {
		if len(a.Tracks[i].Events) != len(b.Tracks[i].Events) {
			t.Fatalf("Track %d event counts differ", i)
		}
		for j := range a.Tracks[i].Events {
			if a.Tracks[i].Events[j] != b.Tracks[i].Events[j] {
				t.Fatalf("Track %d event %d differs", i, j)
			}
		}
	}
}

// TestDefaultScenarioFinalTick verifies the default 30s at 120 BPM piece:
// 60 beats at PPQ 480 means nothing sounds past tick 28800
func TestDefaultScenarioFinalTick(t *testing.T) {
	cfg := Default() // Seed 42, 120 BPM, 30s, C major, PPQ 480

	song, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if song.Budget != 60 {
		t.Errorf("Expected 60-beat budget, got %f", song.Budget)
	}
	if last := midifile.FinalTick(song, cfg.PPQ); last > 28800 {
		t.Errorf("Expected final tick at or before 28800, got %d", last)
	}
}

// TestBuildRoleToggles verifies disabled roles are omitted
func TestBuildRoleToggles(t *testing.T) {
	cfg := Default()
	cfg.DurationSeconds = 5
	cfg.Roles = Roles{Melody: true, Drums: true}

	song, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(song.Tracks) != 2 {
		t.Fatalf("Expected 2 tracks, got %d", len(song.Tracks))
	}
	if song.Tracks[0].Role != core.RoleMelody || song.Tracks[1].Role != core.RoleDrums {
		t.Error("Expected melody and drums tracks")
	}
}
