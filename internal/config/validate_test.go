package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsPass(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty base url",
			mutate:  func(c *Config) { c.Backend.BaseURL = " " },
			wantErr: "base_url must not be empty",
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.Backend.BaseURL = "localhost:5000" },
			wantErr: "must start with http",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.Backend.TimeoutMS = 0 },
			wantErr: "timeout_ms must be > 0",
		},
		{
			name:    "health path without slash",
			mutate:  func(c *Config) { c.Backend.HealthPath = "api/health" },
			wantErr: "health_path must start with '/'",
		},
		{
			name:    "empty language",
			mutate:  func(c *Config) { c.Speech.Language = "" },
			wantErr: "speech.language must not be empty",
		},
		{
			name:    "tts raw set but argv empty",
			mutate:  func(c *Config) { c.Speech.TTSCmd = CommandConfig{Raw: "# commented out"} },
			wantErr: "tts_cmd is configured but empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateWarnsOnVoiceModeWithoutTTS(t *testing.T) {
	cfg := Default()
	cfg.Speech.TTSCmd = CommandConfig{}

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "prompts will not be spoken")
}

func TestValidateWarnsOnUnknownInterviewType(t *testing.T) {
	cfg := Default()
	cfg.Candidate.InterviewType = "Casual"

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "not a known type")
}
