package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lixenwraith/procsynth/config"
	"github.com/lixenwraith/procsynth/core"
	"github.com/lixenwraith/procsynth/midifile"
	"github.com/lixenwraith/procsynth/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleDefaultConfig returns the default configuration as a template for
// generate requests
func (s *Server) handleDefaultConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(config.Default())
}

// handleGenerate accepts a configuration JSON body (missing fields take
// defaults), runs the pipeline, and streams back the encoded file.
// The format query parameter selects midi (default) or wav.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	cfg := config.Default()
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("parse request: %w", err))
			return
		}
	}
	if err := cfg.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	song, err := config.Build(cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "midi":
		var buf bytes.Buffer
		if err := midifile.Encode(&buf, song, cfg.PPQ); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "audio/midi")
		w.Header().Set("Content-Disposition", `attachment; filename="`+uuid.NewString()+`.mid"`)
		w.Write(buf.Bytes())

	case "wav":
		// The wav encoder needs a seeker, so render to a temp file first
		tmp, err := os.CreateTemp("", "procsynth-*.wav")
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		path := tmp.Name()
		tmp.Close()
		defer os.Remove(path)

		if err := render.WriteFile(path, song, render.DefaultOptions()); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Content-Disposition", `attachment; filename="`+uuid.NewString()+`.wav"`)
		http.ServeFile(w, r, filepath.Clean(path))

	default:
		s.writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: unknown format %q", core.ErrConfiguration, r.URL.Query().Get("format")))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Error("request failed", slog.Int("status", status), slog.Any("error", err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
