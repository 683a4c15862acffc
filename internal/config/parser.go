package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

type jsoncConfig struct {
	Backend   *jsoncBackend   `json:"backend"`
	Audio     *jsoncAudio     `json:"audio"`
	Speech    *jsoncSpeech    `json:"speech"`
	Candidate *jsoncCandidate `json:"candidate"`
	Indicator *jsoncIndicator `json:"indicator"`
	Debug     *jsoncDebug     `json:"debug"`
}

type jsoncBackend struct {
	BaseURL    *string `json:"base_url"`
	TimeoutMS  *int    `json:"timeout_ms"`
	HealthPath *string `json:"health_path"`
}

type jsoncAudio struct {
	Input    *string `json:"input"`
	Fallback *string `json:"fallback"`
}

type jsoncSpeech struct {
	VoiceMode *bool   `json:"voice_mode"`
	Language  *string `json:"language"`
	TTSCmd    *string `json:"tts_cmd"`
}

type jsoncCandidate struct {
	Name          *string `json:"name"`
	JobRole       *string `json:"job_role"`
	InterviewType *string `json:"interview_type"`
}

type jsoncIndicator struct {
	Enable      *bool `json:"enable"`
	SoundEnable *bool `json:"sound_enable"`
}

type jsoncDebug struct {
	AudioDump *bool `json:"audio_dump"`
}

var knownTopLevelKeys = map[string]struct{}{
	"backend":   {},
	"audio":     {},
	"speech":    {},
	"candidate": {},
	"indicator": {},
	"debug":     {},
}

// Parse reads JSONC configuration content over a base config.
//
// Unknown top-level keys produce warnings, not errors, so newer config files
// keep loading on older binaries.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	plain := stripJSONC(content)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(plain), &raw); err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	warnings := make([]Warning, 0)
	for key := range raw {
		if _, ok := knownTopLevelKeys[key]; !ok {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("unknown config key %q ignored", key)})
		}
	}

	var decoded jsoncConfig
	if err := json.Unmarshal([]byte(plain), &decoded); err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	cfg := base
	if err := applyDecoded(&cfg, decoded); err != nil {
		return Config{}, nil, err
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)

	return cfg, warnings, nil
}

// applyDecoded overlays decoded pointer fields onto cfg.
func applyDecoded(cfg *Config, decoded jsoncConfig) error {
	if b := decoded.Backend; b != nil {
		setString(&cfg.Backend.BaseURL, b.BaseURL)
		setInt(&cfg.Backend.TimeoutMS, b.TimeoutMS)
		setString(&cfg.Backend.HealthPath, b.HealthPath)
	}
	if a := decoded.Audio; a != nil {
		setString(&cfg.Audio.Input, a.Input)
		setString(&cfg.Audio.Fallback, a.Fallback)
	}
	if s := decoded.Speech; s != nil {
		setBool(&cfg.Speech.VoiceMode, s.VoiceMode)
		setString(&cfg.Speech.Language, s.Language)
		if s.TTSCmd != nil {
			argv, err := parseArgv(*s.TTSCmd)
			if err != nil {
				return fmt.Errorf("speech.tts_cmd: %w", err)
			}
			cfg.Speech.TTSCmd = CommandConfig{Raw: *s.TTSCmd, Argv: argv}
		}
	}
	if c := decoded.Candidate; c != nil {
		setString(&cfg.Candidate.Name, c.Name)
		setString(&cfg.Candidate.JobRole, c.JobRole)
		setString(&cfg.Candidate.InterviewType, c.InterviewType)
	}
	if i := decoded.Indicator; i != nil {
		setBool(&cfg.Indicator.Enable, i.Enable)
		setBool(&cfg.Indicator.SoundEnable, i.SoundEnable)
	}
	if d := decoded.Debug; d != nil {
		setBool(&cfg.Debug.AudioDump, d.AudioDump)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// stripJSONC removes //, /* */ comments and trailing commas while preserving
// string literals and newlines (so decode errors keep usable offsets).
func stripJSONC(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	const (
		modeCode = iota
		modeString
		modeLineComment
		modeBlockComment
	)

	mode := modeCode
	escaped := false
	runes := []rune(content)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch mode {
		case modeCode:
			switch {
			case r == '"':
				mode = modeString
				out.WriteRune(r)
			case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
				mode = modeLineComment
				i++
			case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
				mode = modeBlockComment
				i++
			default:
				out.WriteRune(r)
			}
		case modeString:
			out.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				mode = modeCode
			}
		case modeLineComment:
			if r == '\n' {
				mode = modeCode
				out.WriteRune(r)
			}
		case modeBlockComment:
			if r == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				mode = modeCode
				i++
			} else if r == '\n' {
				out.WriteRune(r)
			}
		}
	}

	return stripTrailingCommas(out.String())
}

// stripTrailingCommas drops commas that directly precede a closing brace/bracket.
// A comma and any whitespace after it are buffered until the next significant
// rune decides whether the comma survives.
func stripTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	var pending []rune
	quoted := false
	escaped := false

	flush := func(dropComma bool) {
		for _, p := range pending {
			if dropComma && p == ',' {
				continue
			}
			out.WriteRune(p)
		}
		pending = pending[:0]
	}

	for _, r := range content {
		if quoted {
			out.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				quoted = false
			}
			continue
		}

		switch {
		case r == ',' && len(pending) == 0:
			pending = append(pending, r)
		case len(pending) > 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			pending = append(pending, r)
		default:
			flush(r == '}' || r == ']')
			out.WriteRune(r)
			if r == '"' {
				quoted = true
			}
		}
	}
	flush(false)

	return out.String()
}
