// Package session drives one mock interview: it owns the turn-taking
// state machine, talks to the backend, and coordinates microphone
// capture and spoken prompts.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/IqraShah110/practice2panel/internal/api"
	"github.com/IqraShah110/practice2panel/internal/fsm"
	"github.com/IqraShah110/practice2panel/internal/indicator"
	"github.com/IqraShah110/practice2panel/internal/ipc"
	"github.com/IqraShah110/practice2panel/internal/speech"
)

// micCooldown debounces microphone toggles so a double keypress does
// not immediately stop a recording that just started.
const micCooldown = 600 * time.Millisecond

// Backend is the slice of the API client the session uses.
type Backend interface {
	StartInterview(ctx context.Context, req api.StartRequest) (api.Session, error)
	Interact(ctx context.Context, sessionID, userInput string) (api.InteractResponse, error)
	NextQuestion(ctx context.Context, sessionID string) (api.NextQuestionResponse, error)
	EndInterview(ctx context.Context, sessionID string) (api.Summary, error)
}

// PromptAware recognizers accept the current question so the server
// can ground transcription against it.
type PromptAware interface {
	SetPrompt(question string)
}

// View is a consistent snapshot of session state for display.
type View struct {
	State          fsm.State
	Question       string
	QuestionNumber int
	TotalQuestions int
	IsFollowUp     bool
	Transcript     string
	Feedback       string
	Hint           string
	Err            string
	Listening      bool
}

// Options wires a Controller. Nil speech and indicator fields get
// no-op implementations.
type Options struct {
	Backend   Backend
	SpeechIn  speech.Input
	SpeechOut speech.Output
	Indicator indicator.Controller
	Logger    *slog.Logger
	VoiceMode bool
}

// Controller owns one interview session. All public methods are safe
// for concurrent use; the zero state is idle.
type Controller struct {
	backend   Backend
	speechIn  speech.Input
	speechOut speech.Output
	indicator indicator.Controller
	logger    *slog.Logger
	voiceMode bool

	// clock and pause are injectable for tests.
	clock func() time.Time
	pause func(d time.Duration, fn func())

	mu               sync.Mutex
	state            fsm.State
	sessionID        string
	interviewType    string
	totalQuestions   int
	questionNumber   int
	isFollowUp       bool
	question         string
	transcriptText   string
	feedback         string
	hint             string
	errText          string
	listening        bool
	summary          *api.Summary
	turnEpoch        uint64
	micCooldownUntil time.Time
}

// New builds a Controller in the idle state.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	speechIn := opts.SpeechIn
	if speechIn == nil {
		speechIn = speech.NoopInput{}
	}
	speechOut := opts.SpeechOut
	if speechOut == nil {
		speechOut = speech.NoopOutput{}
	}
	ind := opts.Indicator
	if ind == nil {
		ind = indicator.Noop{}
	}

	return &Controller{
		backend:   opts.Backend,
		speechIn:  speechIn,
		speechOut: speechOut,
		indicator: ind,
		logger:    logger,
		voiceMode: opts.VoiceMode,
		clock:     time.Now,
		pause: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		state: fsm.StateIdle,
	}
}

// Start opens a session with the backend and presents the first
// question. The candidate name is validated locally so a typo never
// burns a server roundtrip.
func (c *Controller) Start(ctx context.Context, req api.StartRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &api.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	c.mu.Lock()
	if c.state != fsm.StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("interview already in progress (state %s)", c.state)
	}
	c.mu.Unlock()

	session, err := c.backend.StartInterview(ctx, req)
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}

	c.mu.Lock()
	next, terr := fsm.Transition(c.state, fsm.EventStart)
	if terr != nil {
		c.mu.Unlock()
		return terr
	}
	c.state = next
	c.sessionID = session.SessionID
	c.interviewType = session.InterviewType
	c.totalQuestions = session.TotalQuestions
	c.questionNumber = 1
	c.isFollowUp = false
	c.setQuestionLocked(session.FirstQuestion)
	c.mu.Unlock()

	c.logger.Info("interview started",
		"session_id", session.SessionID,
		"interview_type", session.InterviewType,
		"total_questions", session.TotalQuestions)

	if session.WelcomeMessage != "" {
		c.speak(ctx, session.WelcomeMessage)
	}
	c.speak(ctx, fmt.Sprintf("Question 1. %s", session.FirstQuestion))
	return nil
}

// SubmitAnswer sends typed or transcribed answer text for the current
// question. Blank input is silently ignored.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return c.interact(ctx, text)
}

func (c *Controller) interact(ctx context.Context, answer string) error {
	c.mu.Lock()
	next, err := fsm.Transition(c.state, fsm.EventSubmit)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("cannot submit now: %w", err)
	}
	c.state = next
	c.turnEpoch++
	epoch := c.turnEpoch
	c.feedback = ""
	c.hint = ""
	c.errText = ""
	c.transcriptText = answer
	sessionID := c.sessionID
	c.mu.Unlock()

	c.indicator.ShowProcessing(ctx)

	resp, err := c.backend.Interact(ctx, sessionID, answer)
	if err != nil {
		// The answer text stays on screen so the candidate can retry.
		c.mu.Lock()
		c.state = mustTransition(c.state, fsm.EventResolve)
		c.errText = submitErrorText(err)
		c.mu.Unlock()
		c.indicator.ShowError(ctx, submitErrorText(err))
		return fmt.Errorf("submit answer: %w", err)
	}

	switch resp.Outcome() {
	case api.OutcomeRepeat:
		c.mu.Lock()
		c.state = mustTransition(c.state, fsm.EventResolve)
		c.feedback = resp.Message
		c.setQuestionLocked(resp.NextQuestionText())
		c.transcriptText = ""
		question := c.question
		c.mu.Unlock()
		c.speak(ctx, resp.Message)
		c.speak(ctx, question)

	case api.OutcomeHint:
		c.mu.Lock()
		c.state = mustTransition(c.state, fsm.EventResolve)
		c.hint = resp.Hint
		c.transcriptText = ""
		c.mu.Unlock()
		c.speak(ctx, "Here's a hint: "+resp.Hint)

	case api.OutcomeWait:
		c.mu.Lock()
		c.state = mustTransition(c.state, fsm.EventResolve)
		c.feedback = resp.Message
		c.transcriptText = ""
		c.mu.Unlock()
		c.speak(ctx, resp.Message)
		c.scheduleReadyPrompt(ctx, epoch, resp.PauseSeconds)

	case api.OutcomeAnswer:
		if resp.Completed {
			c.speak(ctx, resp.FeedbackText())
			return c.finish(ctx, sessionID, fsm.EventComplete)
		}

		// Feedback is spoken to completion before the next question
		// appears, so the candidate never hears two prompts at once.
		feedback := resp.FeedbackText()
		c.speak(ctx, feedback)

		c.mu.Lock()
		c.state = mustTransition(c.state, fsm.EventResolve)
		c.feedback = feedback
		c.isFollowUp = resp.IsFollowUp
		if !resp.IsFollowUp {
			if resp.QuestionNumber > 0 {
				c.questionNumber = resp.QuestionNumber
			} else {
				c.questionNumber++
			}
		}
		c.setQuestionLocked(resp.NextQuestionText())
		question := c.question
		number := c.questionNumber
		follow := c.isFollowUp
		c.mu.Unlock()

		c.indicator.CueComplete(ctx)
		if follow {
			c.speak(ctx, "A follow-up question. "+question)
		} else {
			c.speak(ctx, fmt.Sprintf("Question %d. %s", number, question))
		}

	default:
		c.mu.Lock()
		c.state = mustTransition(c.state, fsm.EventResolve)
		message := resp.Message
		if message == "" {
			message = "Let's continue with the current question."
		}
		c.feedback = message
		c.transcriptText = ""
		c.mu.Unlock()
		c.logger.Warn("unknown interact intent", "intent", string(resp.Intent))
		c.speak(ctx, message)
	}

	return nil
}

// scheduleReadyPrompt arms the thinking-time timer. The prompt fires
// only if no newer turn started in the meantime.
func (c *Controller) scheduleReadyPrompt(ctx context.Context, epoch uint64, seconds int) {
	if seconds <= 0 {
		seconds = 10
	}

	c.pause(time.Duration(seconds)*time.Second, func() {
		c.mu.Lock()
		stale := c.turnEpoch != epoch || c.state != fsm.StateAwaiting
		if !stale {
			c.feedback = "Ready when you are!"
		}
		c.mu.Unlock()

		if !stale {
			c.speak(ctx, "Ready when you are!")
		}
	})
}

// AdvanceManually skips to the next main question without submitting
// an answer. The skip occupies the submitting state so typed answers
// and mic stops are rejected while it is in flight.
func (c *Controller) AdvanceManually(ctx context.Context) error {
	c.mu.Lock()
	next, terr := fsm.Transition(c.state, fsm.EventSubmit)
	if terr != nil {
		c.mu.Unlock()
		return fmt.Errorf("cannot advance now: %w", terr)
	}
	c.state = next
	c.turnEpoch++
	c.feedback = ""
	c.hint = ""
	c.errText = ""
	sessionID := c.sessionID
	c.mu.Unlock()

	resp, err := c.backend.NextQuestion(ctx, sessionID)
	if err != nil {
		c.mu.Lock()
		c.state = mustTransition(c.state, fsm.EventResolve)
		c.errText = submitErrorText(err)
		c.mu.Unlock()
		c.indicator.ShowError(ctx, submitErrorText(err))
		return fmt.Errorf("next question: %w", err)
	}

	if resp.Completed {
		if resp.Message != "" {
			c.speak(ctx, resp.Message)
		}
		return c.finish(ctx, sessionID, fsm.EventComplete)
	}

	c.mu.Lock()
	c.state = mustTransition(c.state, fsm.EventResolve)
	c.isFollowUp = false
	if resp.QuestionNumber > 0 {
		c.questionNumber = resp.QuestionNumber
	} else {
		c.questionNumber++
	}
	c.setQuestionLocked(resp.NextQuestion)
	question := c.question
	number := c.questionNumber
	c.mu.Unlock()

	if resp.Message != "" {
		c.speak(ctx, resp.Message)
	}
	c.speak(ctx, fmt.Sprintf("Question %d. %s", number, question))
	return nil
}

// EndInterview finishes the session early and fetches the summary.
func (c *Controller) EndInterview(ctx context.Context) error {
	c.mu.Lock()
	if c.state != fsm.StateAwaiting && c.state != fsm.StateSubmitting {
		c.mu.Unlock()
		return fmt.Errorf("no interview to end (state %s)", c.state)
	}
	sessionID := c.sessionID
	listening := c.listening
	c.listening = false
	c.mu.Unlock()

	if listening {
		_ = c.speechIn.Cancel(ctx)
	}
	c.speechOut.Cancel()

	return c.finish(ctx, sessionID, fsm.EventComplete)
}

// finish retrieves the summary and moves to the completed state. A
// backend failure here keeps the session alive so ending can be
// retried.
func (c *Controller) finish(ctx context.Context, sessionID string, event fsm.Event) error {
	const failText = "Could not retrieve the interview summary. Please try again."

	summary, err := c.backend.EndInterview(ctx, sessionID)
	if err != nil {
		c.mu.Lock()
		if c.state == fsm.StateSubmitting {
			c.state = mustTransition(c.state, fsm.EventResolve)
		}
		c.errText = failText
		c.mu.Unlock()
		c.indicator.ShowError(ctx, failText)
		return fmt.Errorf("end interview: %w", err)
	}

	c.mu.Lock()
	c.state = mustTransition(c.state, event)
	c.summary = &summary
	c.sessionID = ""
	c.listening = false
	c.mu.Unlock()

	c.logger.Info("interview completed",
		"session_id", sessionID,
		"questions", summary.TotalQuestions,
		"answers", summary.TotalAnswers)
	c.indicator.CueComplete(ctx)

	if summary.ClosingMessage != "" {
		c.speak(ctx, summary.ClosingMessage)
	}
	return nil
}

// ToggleMicrophone starts or stops voice capture. Rapid repeats
// within the cooldown window and toggles while an answer is being
// evaluated are ignored.
func (c *Controller) ToggleMicrophone(ctx context.Context) error {
	c.mu.Lock()
	now := c.clock()
	if now.Before(c.micCooldownUntil) {
		c.mu.Unlock()
		return nil
	}
	c.micCooldownUntil = now.Add(micCooldown)

	if c.state == fsm.StateSubmitting {
		c.mu.Unlock()
		return nil
	}
	if c.state != fsm.StateAwaiting {
		c.mu.Unlock()
		return fmt.Errorf("microphone is only available during the interview (state %s)", c.state)
	}

	if c.listening {
		c.listening = false
		c.mu.Unlock()
		return c.stopRecording(ctx)
	}

	question := c.question
	c.mu.Unlock()
	return c.startRecording(ctx, question)
}

func (c *Controller) startRecording(ctx context.Context, question string) error {
	// Stop any prompt still playing; the candidate is ready to talk.
	c.speechOut.Cancel()

	if aware, ok := c.speechIn.(PromptAware); ok {
		aware.SetPrompt(question)
	}

	err := c.speechIn.Start(ctx, func(text string) {
		c.mu.Lock()
		c.transcriptText = text
		c.mu.Unlock()
	})
	if err != nil {
		message := "Voice input is unavailable. Type your answer instead."
		if !errors.Is(err, speech.ErrUnsupported) {
			message = "Could not start the microphone. Please try again."
		}
		c.mu.Lock()
		c.errText = message
		c.mu.Unlock()
		c.indicator.ShowError(ctx, message)
		return fmt.Errorf("start recording: %w", err)
	}

	c.mu.Lock()
	c.listening = true
	c.errText = ""
	c.mu.Unlock()
	c.indicator.ShowListening(ctx)
	return nil
}

func (c *Controller) stopRecording(ctx context.Context) error {
	c.indicator.CueStop(ctx)

	text, err := c.speechIn.Stop(ctx)
	if err != nil {
		if errors.Is(err, speech.ErrEmptyTranscript) {
			message := "No speech detected. Please try again."
			c.mu.Lock()
			c.feedback = message
			c.mu.Unlock()
			c.speak(ctx, message)
			return nil
		}
		message := "Could not process the recording. Please try again."
		c.mu.Lock()
		c.errText = message
		c.mu.Unlock()
		c.indicator.ShowError(ctx, message)
		return fmt.Errorf("stop recording: %w", err)
	}

	c.speak(ctx, "Processing your answer.")
	return c.interact(ctx, text)
}

// DismissError returns to the question from the error state.
func (c *Controller) DismissError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, fsm.EventReset)
	if err != nil {
		return err
	}
	c.state = next
	c.errText = ""
	return nil
}

// Discard abandons a failed session entirely.
func (c *Controller) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, fsm.EventDiscard)
	if err != nil {
		return err
	}
	c.state = next
	c.sessionID = ""
	c.question = ""
	c.transcriptText = ""
	c.feedback = ""
	c.hint = ""
	c.errText = ""
	c.questionNumber = 0
	c.isFollowUp = false
	return nil
}

// View returns a snapshot of the session for display.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		State:          c.state,
		Question:       c.question,
		QuestionNumber: c.questionNumber,
		TotalQuestions: c.totalQuestions,
		IsFollowUp:     c.isFollowUp,
		Transcript:     c.transcriptText,
		Feedback:       c.feedback,
		Hint:           c.hint,
		Err:            c.errText,
		Listening:      c.listening,
	}
}

// Summary returns the final report once the interview completed.
func (c *Controller) Summary() (api.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return api.Summary{}, false
	}
	return *c.summary, true
}

// Handle serves control commands arriving over the unix socket.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		view := c.View()
		return ipc.Response{
			OK:             true,
			State:          string(view.State),
			Question:       view.Question,
			QuestionNumber: view.QuestionNumber,
		}

	case ipc.CommandMic:
		if err := c.ToggleMicrophone(ctx); err != nil {
			return ipc.Response{OK: false, State: string(c.View().State), Error: err.Error()}
		}
		view := c.View()
		message := "microphone stopped"
		if view.Listening {
			message = "microphone started"
		}
		return ipc.Response{OK: true, State: string(view.State), Message: message}

	case ipc.CommandNext:
		if err := c.AdvanceManually(ctx); err != nil {
			return ipc.Response{OK: false, State: string(c.View().State), Error: err.Error()}
		}
		view := c.View()
		return ipc.Response{
			OK:             true,
			State:          string(view.State),
			Question:       view.Question,
			QuestionNumber: view.QuestionNumber,
		}

	case ipc.CommandEnd:
		if err := c.EndInterview(ctx); err != nil {
			return ipc.Response{OK: false, State: string(c.View().State), Error: err.Error()}
		}
		return ipc.Response{OK: true, State: string(c.View().State), Message: "interview ended"}

	default:
		return ipc.Response{OK: false, State: string(c.View().State), Error: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

// setQuestionLocked updates the current question, clearing the
// transcript on a question change so an answer never carries over
// between questions.
func (c *Controller) setQuestionLocked(question string) {
	if question == "" || question == c.question {
		return
	}
	c.question = question
	c.transcriptText = ""
	c.hint = ""

	if aware, ok := c.speechIn.(PromptAware); ok {
		aware.SetPrompt(question)
	}
}

// speak plays text when voice mode is on. Playback failures are
// logged and never interrupt the interview.
func (c *Controller) speak(ctx context.Context, text string) {
	if !c.voiceMode || text == "" {
		return
	}
	if err := c.speechOut.Speak(ctx, text); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("speech playback failed", "error", err)
	}
}

// mustTransition is for transitions the controller has already
// guarded; an invalid one is a programming error worth a loud state.
func mustTransition(state fsm.State, event fsm.Event) fsm.State {
	next, err := fsm.Transition(state, event)
	if err != nil {
		return fsm.StateError
	}
	return next
}

func submitErrorText(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return "Error processing response. Please try again."
}
