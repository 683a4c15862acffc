// Package doctor runs readiness diagnostics for config, backend
// connectivity, audio capture, and speech playback.
package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/IqraShah110/practice2panel/internal/audio"
	"github.com/IqraShah110/practice2panel/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

func (c Check) String() string {
	status := "OK"
	if !c.Pass {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s: %s", status, c.Name, c.Message)
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	lines := make([]string, len(r.Checks))
	for i, check := range r.Checks {
		lines[i] = check.String()
	}
	return strings.Join(lines, "\n")
}

// Run executes config and runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	configMessage := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		configMessage = fmt.Sprintf("no file at %q, using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: configMessage})

	for _, warning := range cfg.Warnings {
		checks = append(checks, Check{
			Name:    "config.warning",
			Pass:    false,
			Message: warning.Message,
		})
	}

	checks = append(checks, checkBackendHealth(cfg.Config))

	if cfg.Config.Speech.VoiceMode {
		checks = append(checks, checkAudioSelection(cfg.Config))
		checks = append(checks, checkCommand(cfg.Config.Speech.TTSCmd.Argv, "tts_cmd"))
	}

	return Report{Checks: checks}
}

// checkBackendHealth probes the backend health endpoint.
func checkBackendHealth(cfg config.Config) Check {
	url := strings.TrimRight(cfg.Backend.BaseURL, "/") + cfg.Backend.HealthPath

	client := http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return Check{Name: "backend.health", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Check{Name: "backend.health", Pass: false, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, url)}
	}
	return Check{Name: "backend.health", Pass: true, Message: fmt.Sprintf("reachable at %s", url)}
}

// checkAudioSelection runs live device selection to surface
// selection and fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkCommand validates that argv names a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	bin := argv[0]
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("found at %s", path)}
}
