package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	tts := "espeak-ng"

	return Config{
		Backend: BackendConfig{
			BaseURL:    "http://127.0.0.1:5000",
			TimeoutMS:  20000,
			HealthPath: "/api/health",
		},
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Speech: SpeechConfig{
			VoiceMode: true,
			Language:  "en-US",
			TTSCmd:    CommandConfig{Raw: tts, Argv: mustParseArgv(tts)},
		},
		Candidate: CandidateConfig{
			JobRole:       "AI Engineer",
			InterviewType: "Conceptual",
		},
		Indicator: IndicatorConfig{
			Enable:      true,
			SoundEnable: true,
		},
		Debug: DebugConfig{},
	}
}
