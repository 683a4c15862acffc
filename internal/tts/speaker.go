// Package tts speaks interviewer prompts through an external command
// such as espeak-ng or piper. Text is written to the command's stdin.
package tts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/IqraShah110/practice2panel/internal/speech"
)

// Speaker implements speech.Output by running a configured argv once
// per utterance. A new Speak or a Cancel kills whatever is still
// playing; superseded playback is not an error.
type Speaker struct {
	argv   []string
	logger *slog.Logger

	mu         sync.Mutex
	generation uint64
	current    *exec.Cmd
}

// New builds a Speaker. The argv must name the playback command and
// its arguments; speech.ErrUnsupported is returned when it is empty.
func New(argv []string, logger *slog.Logger) (*Speaker, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: no speech command configured", speech.ErrUnsupported)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Speaker{argv: argv, logger: logger}, nil
}

// Speak plays text and blocks until playback finishes, is cancelled,
// or is superseded by a newer utterance.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.current != nil && s.current.Process != nil {
		_ = s.current.Process.Kill()
	}

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("start %s: %w", s.argv[0], err)
	}
	s.current = cmd
	s.mu.Unlock()

	s.logger.Debug("speaking", "chars", len(text))
	waitErr := cmd.Wait()

	s.mu.Lock()
	superseded := s.generation != gen
	if s.current == cmd {
		s.current = nil
	}
	s.mu.Unlock()

	if superseded {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		return fmt.Errorf("run %s: %w", s.argv[0], waitErr)
	}
	return nil
}

// Cancel interrupts any in-flight playback.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if s.current != nil && s.current.Process != nil {
		_ = s.current.Process.Kill()
	}
	s.current = nil
}
