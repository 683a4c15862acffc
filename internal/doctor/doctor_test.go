package doctor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IqraShah110/practice2panel/internal/config"
)

func TestReportOK(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "a", Pass: true, Message: "fine"},
		{Name: "b", Pass: true, Message: "also fine"},
	}}
	require.True(t, report.OK())

	report.Checks = append(report.Checks, Check{Name: "c", Pass: false, Message: "broken"})
	require.False(t, report.OK())
}

func TestReportString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "backend.health", Pass: true, Message: "reachable"},
		{Name: "tts_cmd", Pass: false, Message: "binary not found in PATH: espeak-ng"},
	}}

	out := report.String()
	require.Contains(t, out, "[OK] backend.health: reachable")
	require.Contains(t, out, "[FAIL] tts_cmd: binary not found in PATH: espeak-ng")
}

func TestCheckBackendHealthReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Backend.BaseURL = server.URL

	check := checkBackendHealth(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "reachable")
}

func TestCheckBackendHealthFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Backend.BaseURL = server.URL

	check := checkBackendHealth(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "HTTP 503")
}

func TestCheckBackendHealthUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cfg := config.Default()
	cfg.Backend.BaseURL = url

	check := checkBackendHealth(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "request failed")
}

func TestCheckCommand(t *testing.T) {
	require.False(t, checkCommand(nil, "tts_cmd").Pass)
	require.False(t, checkCommand([]string{"definitely-not-a-binary-xyz"}, "tts_cmd").Pass)

	check := checkCommand([]string{"sh", "-c", "true"}, "tts_cmd")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "found at")
}

func TestRunSkipsAudioWhenVoiceModeOff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Backend.BaseURL = server.URL
	cfg.Speech.VoiceMode = false

	report := Run(config.Loaded{Path: "/tmp/config.jsonc", Config: cfg, Exists: true})
	for _, check := range report.Checks {
		require.NotEqual(t, "audio.device", check.Name)
		require.NotEqual(t, "tts_cmd", check.Name)
	}
}

func TestRunReportsConfigWarnings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Backend.BaseURL = server.URL
	cfg.Speech.VoiceMode = false

	report := Run(config.Loaded{
		Path:     "/tmp/config.jsonc",
		Config:   cfg,
		Exists:   true,
		Warnings: []config.Warning{{Message: "unknown interview_type \"casual\""}},
	})

	require.False(t, report.OK())
	require.Contains(t, report.String(), "unknown interview_type")
}
