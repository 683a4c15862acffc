package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, parses, validates, and env-overlays the runtime configuration.
//
// Precedence, lowest to highest: defaults, config file, .env file, process env.
func Load(explicitPath string) (Loaded, error) {
	// godotenv only fills variables the process does not already export.
	_ = godotenv.Load()

	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	base := Default()
	loaded := Loaded{Path: resolvedPath, Config: base}

	content, err := os.ReadFile(resolvedPath)
	switch {
	case err == nil:
		cfg, warnings, parseErr := Parse(string(content), base)
		if parseErr != nil {
			return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, parseErr)
		}
		loaded.Config = cfg
		loaded.Warnings = warnings
		loaded.Exists = true
	case errors.Is(err, os.ErrNotExist):
		loaded.Warnings = []Warning{{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		}}
	default:
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	envWarnings, err := applyEnvOverrides(&loaded.Config)
	if err != nil {
		return Loaded{}, err
	}
	loaded.Warnings = append(loaded.Warnings, envWarnings...)

	if _, err := Validate(loaded.Config); err != nil {
		return Loaded{}, fmt.Errorf("config %q: %w", resolvedPath, err)
	}

	return loaded, nil
}

// applyEnvOverrides layers P2P_* environment variables over the config.
func applyEnvOverrides(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if v := strings.TrimSpace(os.Getenv("P2P_BASE_URL")); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("P2P_HEALTH_PATH")); v != "" {
		cfg.Backend.HealthPath = v
	}
	if v := strings.TrimSpace(os.Getenv("P2P_TIMEOUT_MS")); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("P2P_TIMEOUT_MS: %w", err)
		}
		cfg.Backend.TimeoutMS = ms
	}
	if v := strings.TrimSpace(os.Getenv("P2P_AUDIO_INPUT")); v != "" {
		cfg.Audio.Input = v
	}
	if v := strings.TrimSpace(os.Getenv("P2P_TTS_CMD")); v != "" {
		argv, err := parseArgv(v)
		if err != nil {
			return nil, fmt.Errorf("P2P_TTS_CMD: %w", err)
		}
		cfg.Speech.TTSCmd = CommandConfig{Raw: v, Argv: argv}
	}
	if v := strings.TrimSpace(os.Getenv("P2P_VOICE_MODE")); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("P2P_VOICE_MODE %q is not a boolean; ignored", v)})
		} else {
			cfg.Speech.VoiceMode = on
		}
	}
	if v := strings.TrimSpace(os.Getenv("P2P_NAME")); v != "" {
		cfg.Candidate.Name = v
	}
	if v := strings.TrimSpace(os.Getenv("P2P_JOB_ROLE")); v != "" {
		cfg.Candidate.JobRole = v
	}
	if v := strings.TrimSpace(os.Getenv("P2P_INTERVIEW_TYPE")); v != "" {
		cfg.Candidate.InterviewType = v
	}

	return warnings, nil
}
