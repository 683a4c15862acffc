// Package speech defines the capture and playback seams used by the
// interview session. Concrete implementations live in asr and tts;
// the no-op variants here keep text-only sessions working when voice
// mode is disabled or the audio stack is unavailable.
package speech

import (
	"context"
	"errors"
)

// ErrUnsupported indicates the host cannot provide the requested
// speech capability (no capture device, missing playback command).
var ErrUnsupported = errors.New("speech: capability unavailable on this host")

// ErrEmptyTranscript indicates capture succeeded but no usable speech
// was recognized.
var ErrEmptyTranscript = errors.New("speech: no speech detected")

// TranscriptFunc receives partial transcript text as it becomes
// available. Implementations may call it zero or more times.
type TranscriptFunc func(text string)

// Input captures microphone audio and turns it into text.
type Input interface {
	// Start begins capturing audio. It returns once capture is
	// established; recognition continues until Stop or Cancel.
	Start(ctx context.Context, onTranscript TranscriptFunc) error

	// Stop ends capture and returns the final transcript.
	Stop(ctx context.Context) (string, error)

	// Cancel ends capture and discards any audio collected so far.
	Cancel(ctx context.Context) error
}

// Output speaks text aloud.
type Output interface {
	// Speak plays the given text and blocks until playback finishes
	// or the context is cancelled.
	Speak(ctx context.Context, text string) error

	// Cancel interrupts any in-flight playback.
	Cancel()
}

// NoopInput is an Input that reports ErrUnsupported from Start. It is
// the default when no recognizer is wired in.
type NoopInput struct{}

func (NoopInput) Start(context.Context, TranscriptFunc) error { return ErrUnsupported }
func (NoopInput) Stop(context.Context) (string, error)        { return "", ErrUnsupported }
func (NoopInput) Cancel(context.Context) error                { return nil }

// NoopOutput is an Output that silently discards text. Sessions with
// voice mode off use it so callers never need nil checks.
type NoopOutput struct{}

func (NoopOutput) Speak(context.Context, string) error { return nil }
func (NoopOutput) Cancel()                             {}
