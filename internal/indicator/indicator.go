// Package indicator gives the candidate feedback about what the
// session is doing: short status lines on the terminal and audio cues
// for microphone transitions.
package indicator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Controller is the session-facing indicator contract.
type Controller interface {
	ShowListening(context.Context)
	ShowProcessing(context.Context)
	ShowError(context.Context, string)
	CueStop(context.Context)
	CueComplete(context.Context)
}

// Terminal writes status lines to a writer and plays synthesized
// cues. Both halves can be switched off independently.
type Terminal struct {
	out       io.Writer
	logger    *slog.Logger
	showText  bool
	playSound bool

	// emit is swapped out by tests so no Pulse server is needed.
	emit func(kind cueKind) error

	soundMu sync.Mutex
}

// NewTerminal builds a Terminal indicator writing to out.
func NewTerminal(out io.Writer, showText, playSound bool, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Terminal{
		out:       out,
		logger:    logger,
		showText:  showText,
		playSound: playSound,
		emit:      emitCue,
	}
}

// ShowListening signals that the microphone is live.
func (t *Terminal) ShowListening(context.Context) {
	t.playCue(cueListen)
	t.print("🎤 Listening... press /mic again to stop.")
}

// ShowProcessing signals that an answer is being evaluated.
func (t *Terminal) ShowProcessing(context.Context) {
	t.print("⏳ Processing your answer...")
}

// ShowError surfaces a failure to the candidate.
func (t *Terminal) ShowError(_ context.Context, text string) {
	t.playCue(cueError)
	if text == "" {
		text = "Something went wrong."
	}
	t.print("⚠ " + text)
}

// CueStop plays the microphone-off cue.
func (t *Terminal) CueStop(context.Context) {
	t.playCue(cueStop)
}

// CueComplete plays the answer-accepted cue.
func (t *Terminal) CueComplete(context.Context) {
	t.playCue(cueComplete)
}

func (t *Terminal) print(line string) {
	if !t.showText || t.out == nil {
		return
	}
	fmt.Fprintln(t.out, line)
}

func (t *Terminal) playCue(kind cueKind) {
	if !t.playSound {
		return
	}
	go func() {
		t.soundMu.Lock()
		defer t.soundMu.Unlock()
		if err := t.emit(kind); err != nil {
			t.logger.Debug("audio cue failed", "error", err.Error())
		}
	}()
}

// Noop satisfies Controller without producing any output. Sessions
// driven over IPC with no terminal attached use it.
type Noop struct{}

func (Noop) ShowListening(context.Context)     {}
func (Noop) ShowProcessing(context.Context)    {}
func (Noop) ShowError(context.Context, string) {}
func (Noop) CueStop(context.Context)           {}
func (Noop) CueComplete(context.Context)       {}
