// Package asr turns microphone capture into answer text. Recording
// happens locally over PulseAudio; recognition happens server-side
// through the voice processing endpoint.
package asr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/IqraShah110/practice2panel/internal/api"
	"github.com/IqraShah110/practice2panel/internal/audio"
	"github.com/IqraShah110/practice2panel/internal/speech"
	"github.com/IqraShah110/practice2panel/internal/transcript"
)

const sampleRate = 16000

// Uploader sends a finished recording for transcription.
type Uploader interface {
	ProcessVoice(ctx context.Context, wav []byte, question string) (api.VoiceResult, error)
}

// captureHandle is the slice of audio.Capture the recognizer needs.
type captureHandle interface {
	RawPCM() []byte
	Stop() error
	Device() audio.Device
}

// Options configures a Recognizer.
type Options struct {
	// Input and Fallback are device preferences, matched against
	// Pulse source ids and descriptions.
	Input    string
	Fallback string

	// DebugDir, when set, receives a WAV copy of every recording.
	DebugDir string

	Logger *slog.Logger
}

// Recognizer implements speech.Input on top of Pulse capture and the
// backend transcription endpoint.
type Recognizer struct {
	uploader Uploader
	opts     Options
	logger   *slog.Logger

	// Capture seams, swapped out by tests.
	selectDevice func(ctx context.Context, input, fallback string) (audio.Selection, error)
	startCapture func(ctx context.Context, device audio.Device) (captureHandle, error)

	mu           sync.Mutex
	capture      captureHandle
	onTranscript speech.TranscriptFunc
	question     string
}

// New builds a Recognizer that uploads recordings through uploader.
func New(uploader Uploader, opts Options) *Recognizer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recognizer{
		uploader:     uploader,
		opts:         opts,
		logger:       logger,
		selectDevice: audio.SelectDevice,
		startCapture: func(ctx context.Context, device audio.Device) (captureHandle, error) {
			return audio.StartCapture(ctx, device)
		},
	}
}

// SetPrompt records the question the next recording answers. The
// server uses it to ground transcription and evaluation.
func (r *Recognizer) SetPrompt(question string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.question = question
}

// Start begins recording from the configured input device.
func (r *Recognizer) Start(ctx context.Context, onTranscript speech.TranscriptFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capture != nil {
		return fmt.Errorf("recording already in progress")
	}

	selection, err := r.selectDevice(ctx, r.opts.Input, r.opts.Fallback)
	if err != nil {
		return fmt.Errorf("%w: %v", speech.ErrUnsupported, err)
	}
	if selection.Warning != "" {
		r.logger.Warn("audio device fallback", "warning", selection.Warning)
	}

	capture, err := r.startCapture(ctx, selection.Device)
	if err != nil {
		return fmt.Errorf("%w: %v", speech.ErrUnsupported, err)
	}

	r.logger.Info("recording started", "device", selection.Device.ID)
	r.capture = capture
	r.onTranscript = onTranscript
	return nil
}

// Stop ends the recording, uploads it, and returns the normalized
// transcript.
func (r *Recognizer) Stop(ctx context.Context) (string, error) {
	r.mu.Lock()
	capture := r.capture
	onTranscript := r.onTranscript
	question := r.question
	r.capture = nil
	r.onTranscript = nil
	r.mu.Unlock()

	if capture == nil {
		return "", fmt.Errorf("no recording in progress")
	}

	if err := capture.Stop(); err != nil {
		return "", fmt.Errorf("stop capture: %w", err)
	}

	pcm := capture.RawPCM()
	if len(pcm) == 0 {
		return "", speech.ErrEmptyTranscript
	}

	wav := encodePCM16WAV(pcm, sampleRate)
	r.dumpDebugAudio(wav)

	result, err := r.uploader.ProcessVoice(ctx, wav, question)
	if err != nil {
		return "", fmt.Errorf("transcribe recording: %w", err)
	}
	if !result.Success {
		r.logger.Info("transcription rejected", "message", result.Message)
		return "", speech.ErrEmptyTranscript
	}

	text := transcript.Normalize(result.Transcript)
	if text == "" {
		return "", speech.ErrEmptyTranscript
	}

	r.logger.Info("recording transcribed",
		"bytes", len(pcm),
		"chars", len(text))

	if onTranscript != nil {
		onTranscript(text)
	}
	return text, nil
}

// Cancel ends the recording and discards the audio.
func (r *Recognizer) Cancel(context.Context) error {
	r.mu.Lock()
	capture := r.capture
	r.capture = nil
	r.onTranscript = nil
	r.mu.Unlock()

	if capture == nil {
		return nil
	}
	r.logger.Info("recording discarded")
	return capture.Stop()
}

// dumpDebugAudio writes the WAV to the debug directory when one is
// configured. Failures are logged, never fatal.
func (r *Recognizer) dumpDebugAudio(wav []byte) {
	if r.opts.DebugDir == "" {
		return
	}

	if err := os.MkdirAll(r.opts.DebugDir, 0o755); err != nil {
		r.logger.Warn("create debug audio dir failed", "error", err)
		return
	}

	name := fmt.Sprintf("answer-%s.wav", time.Now().Format("20060102-150405"))
	path := filepath.Join(r.opts.DebugDir, name)
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		r.logger.Warn("write debug audio failed", "error", err)
		return
	}
	r.logger.Debug("debug audio written", "path", path)
}
