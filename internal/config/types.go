// Package config resolves, parses, validates, and defaults practice2panel configuration.
package config

// Config is the fully materialized runtime configuration used by practice2panel.
type Config struct {
	Backend   BackendConfig
	Audio     AudioConfig
	Speech    SpeechConfig
	Candidate CandidateConfig
	Indicator IndicatorConfig
	Debug     DebugConfig
}

// BackendConfig locates the interview backend and its health probe.
type BackendConfig struct {
	BaseURL    string
	TimeoutMS  int
	HealthPath string
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// SpeechConfig controls voice mode, spoken-prompt dispatch, and recognition hints.
type SpeechConfig struct {
	VoiceMode bool
	Language  string
	TTSCmd    CommandConfig
}

// CandidateConfig holds session-creation defaults for the interview form fields.
type CandidateConfig struct {
	Name          string
	JobRole       string
	InterviewType string
}

// IndicatorConfig controls terminal status output and audio cue behavior.
type IndicatorConfig struct {
	Enable      bool
	SoundEnable bool
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	AudioDump bool
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
