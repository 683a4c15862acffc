package config

import (
	"fmt"
	"strings"
)

var knownInterviewTypes = map[string]struct{}{
	"conceptual": {},
	"behavioral": {},
	"technical":  {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	base := strings.TrimSpace(cfg.Backend.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("backend.base_url must not be empty")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("backend.base_url must start with http:// or https://")
	}
	if cfg.Backend.TimeoutMS <= 0 {
		return nil, fmt.Errorf("backend.timeout_ms must be > 0")
	}
	health := strings.TrimSpace(cfg.Backend.HealthPath)
	if health == "" {
		return nil, fmt.Errorf("backend.health_path must not be empty")
	}
	if !strings.HasPrefix(health, "/") {
		return nil, fmt.Errorf("backend.health_path must start with '/'")
	}

	if strings.TrimSpace(cfg.Speech.Language) == "" {
		return nil, fmt.Errorf("speech.language must not be empty")
	}
	if cfg.Speech.TTSCmd.Raw != "" && len(cfg.Speech.TTSCmd.Argv) == 0 {
		return nil, fmt.Errorf("speech.tts_cmd is configured but empty")
	}
	if cfg.Speech.VoiceMode && len(cfg.Speech.TTSCmd.Argv) == 0 {
		warnings = append(warnings, Warning{Message: "speech.voice_mode is on but speech.tts_cmd is unset; prompts will not be spoken"})
	}

	if itype := strings.ToLower(strings.TrimSpace(cfg.Candidate.InterviewType)); itype != "" {
		if _, ok := knownInterviewTypes[itype]; !ok {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("candidate.interview_type %q is not a known type; the backend may reject it", cfg.Candidate.InterviewType)})
		}
	}

	return warnings, nil
}
