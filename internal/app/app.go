// Package app wires configuration, the API client, speech, and the
// session controller into the command line entrypoint.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/IqraShah110/practice2panel/internal/api"
	"github.com/IqraShah110/practice2panel/internal/asr"
	"github.com/IqraShah110/practice2panel/internal/audio"
	"github.com/IqraShah110/practice2panel/internal/cli"
	"github.com/IqraShah110/practice2panel/internal/config"
	"github.com/IqraShah110/practice2panel/internal/doctor"
	"github.com/IqraShah110/practice2panel/internal/fsm"
	"github.com/IqraShah110/practice2panel/internal/indicator"
	"github.com/IqraShah110/practice2panel/internal/ipc"
	"github.com/IqraShah110/practice2panel/internal/logging"
	"github.com/IqraShah110/practice2panel/internal/session"
	"github.com/IqraShah110/practice2panel/internal/speech"
	"github.com/IqraShah110/practice2panel/internal/storage"
	"github.com/IqraShah110/practice2panel/internal/summary"
	"github.com/IqraShah110/practice2panel/internal/tts"
	"github.com/IqraShah110/practice2panel/internal/version"
)

const binaryName = "practice2panel"

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	cfg := applyFlagOverrides(cfgLoaded.Config, parsed)

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		cfgLoaded.Config = cfg
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandMic:
		return r.forwardOrFail(ctx, ipc.CommandMic)
	case cli.CommandNext:
		return r.forwardOrFail(ctx, ipc.CommandNext)
	case cli.CommandEnd:
		return r.forwardOrFail(ctx, ipc.CommandEnd)
	case cli.CommandSummary:
		return r.commandSummary()
	case cli.CommandAsk:
		return r.commandAsk(ctx, cfg, strings.Join(parsed.Args, " "), logger)
	case cli.CommandQuestions:
		return r.commandQuestions(ctx, cfg, parsed.Args[0], parsed.Args[1], logger)
	case cli.CommandEvaluate:
		return r.commandEvaluate(ctx, cfg, strings.Join(parsed.Args, " "), logger)
	case cli.CommandSignUp:
		return r.commandSignUp(ctx, cfg, parsed.Args[0], strings.Join(parsed.Args[1:], " "), logger)
	case cli.CommandLogin:
		password := ""
		if len(parsed.Args) > 1 {
			password = parsed.Args[1]
		}
		return r.commandLogin(ctx, cfg, parsed.Args[0], password, logger)
	case cli.CommandLogout:
		return r.commandLogout(ctx, cfg, logger)
	case cli.CommandWhoami:
		return r.commandWhoami(ctx, cfg, logger)
	case cli.CommandInterview:
		return r.commandInterview(ctx, cfg, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// applyFlagOverrides lets command line flags win over the config file
// for candidate details.
func applyFlagOverrides(cfg config.Config, parsed cli.Parsed) config.Config {
	if parsed.Name != "" {
		cfg.Candidate.Name = parsed.Name
	}
	if parsed.Role != "" {
		cfg.Candidate.JobRole = parsed.Role
	}
	if parsed.Type != "" {
		cfg.Candidate.InterviewType = parsed.Type
	}
	if parsed.TextOnly {
		cfg.Speech.VoiceMode = false
	}
	return cfg
}

func newAPIClient(cfg config.Config, logger *slog.Logger) (*api.Client, error) {
	cookiePath := ""
	if stateDir, err := logging.StateDir(); err == nil {
		cookiePath = filepath.Join(stateDir, "cookies.json")
	}

	return api.New(api.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    time.Duration(cfg.Backend.TimeoutMS) * time.Millisecond,
		HealthPath: cfg.Backend.HealthPath,
		Logger:     logger,
		CookiePath: cookiePath,
	})
}

func (r Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

// promptLine prints a prompt and reads one trimmed line from stdin.
func (r Runner) promptLine(prompt string) (string, error) {
	fmt.Fprint(r.Stdout, prompt)
	scanner := bufio.NewScanner(r.stdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}

	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.CommandStatus)
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "idle"
		}
		if resp.Question != "" {
			fmt.Fprintf(r.Stdout, "%s (question %d: %s)\n", resp.State, resp.QuestionNumber, resp.Question)
		} else {
			fmt.Fprintln(r.Stdout, resp.State)
		}
		return 0
	}

	fmt.Fprintln(r.Stdout, "idle")
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, command)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no active interview session")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	if resp.Question != "" {
		fmt.Fprintf(r.Stdout, "Question %d: %s\n", resp.QuestionNumber, resp.Question)
	}
	return 0
}

func (r Runner) commandSummary() int {
	store, err := storage.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	record, err := store.Latest()
	if err != nil {
		if errors.Is(err, storage.ErrNoRecords) {
			fmt.Fprintln(r.Stdout, "no saved interview summaries yet")
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "Saved %s\n\n", record.SavedAt.Format(time.RFC1123))
	summary.Render(r.Stdout, record.Summary)
	return 0
}

func (r Runner) commandAsk(ctx context.Context, cfg config.Config, question string, logger *slog.Logger) int {
	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	reply, err := client.Chat(ctx, api.ChatRequest{
		Message: question,
		Context: api.ChatContext{
			Role:          cfg.Candidate.JobRole,
			InterviewType: cfg.Candidate.InterviewType,
		},
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(r.Stdout, reply)
	return 0
}

func (r Runner) commandQuestions(ctx context.Context, cfg config.Config, interviewType, skill string, logger *slog.Logger) int {
	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	questions, err := client.Questions(ctx, interviewType, skill)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
			fmt.Fprintf(r.Stdout, "no questions available for %s / %s\n", interviewType, skill)
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	for i, question := range questions {
		fmt.Fprintf(r.Stdout, "%2d. %s\n", i+1, question)
	}
	return 0
}

func (r Runner) commandEvaluate(ctx context.Context, cfg config.Config, question string, logger *slog.Logger) int {
	fmt.Fprintln(r.Stdout, "Type your answer, finish with an empty line:")

	var lines []string
	scanner := bufio.NewScanner(r.stdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	answer := strings.Join(lines, "\n")
	if answer == "" {
		fmt.Fprintln(r.Stderr, "error: answer must not be empty")
		return 2
	}

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	result, err := client.Evaluate(ctx, question, answer, cfg.Candidate.JobRole, "")
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if !result.Success && result.Message != "" {
		fmt.Fprintf(r.Stderr, "error: %s\n", result.Message)
		return 1
	}

	assessment := result.Assessment()
	if assessment.Score > 0 {
		fmt.Fprintf(r.Stdout, "\nScore: %d/10\n", assessment.Score)
	}
	if assessment.Summary != "" {
		fmt.Fprintf(r.Stdout, "%s\n", assessment.Summary)
	}
	for _, strength := range assessment.Strengths {
		fmt.Fprintf(r.Stdout, "  + %s\n", strength)
	}
	for _, improvement := range assessment.Improvements {
		fmt.Fprintf(r.Stdout, "  - %s\n", improvement)
	}
	return 0
}

func (r Runner) commandSignUp(ctx context.Context, cfg config.Config, email, fullName string, logger *slog.Logger) int {
	password, err := r.promptLine("Password: ")
	if err != nil || password == "" {
		fmt.Fprintln(r.Stderr, "error: password is required")
		return 2
	}

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	userID, err := client.SignUp(ctx, email, password, fullName)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "Account created for %s (user %d). Check your inbox for the verification code.\n", email, userID)
	return 0
}

func (r Runner) commandLogin(ctx context.Context, cfg config.Config, email, password string, logger *slog.Logger) int {
	if password == "" {
		var err error
		password, err = r.promptLine("Password: ")
		if err != nil || password == "" {
			fmt.Fprintln(r.Stderr, "error: password is required")
			return 2
		}
	}

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	user, err := client.Login(ctx, email, password, true)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "Logged in as %s <%s>\n", user.FullName, user.Email)
	return 0
}

func (r Runner) commandLogout(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if err := client.Logout(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(r.Stdout, "Logged out.")
	return 0
}

func (r Runner) commandWhoami(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	user, authenticated, err := client.CheckAuth(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if !authenticated {
		fmt.Fprintln(r.Stdout, "not logged in")
		return 0
	}

	fmt.Fprintf(r.Stdout, "Logged in as %s <%s>\n", user.FullName, user.Email)
	return 0
}

func (r Runner) commandInterview(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: an interview session is already running; use mic/next/end/status to control it")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	controller := session.New(session.Options{
		Backend:   client,
		SpeechIn:  r.buildRecognizer(cfg, client, logger),
		SpeechOut: r.buildSpeaker(cfg, logger),
		Indicator: indicator.NewTerminal(r.Stdout, cfg.Indicator.Enable, cfg.Indicator.SoundEnable, logger),
		Logger:    logger,
		VoiceMode: cfg.Speech.VoiceMode,
	})

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, ipc.HandlerFunc(controller.Handle))
	}()

	code := r.runInterviewLoop(ctx, cfg, controller)

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: control server failed: %v\n", serverErr)
		return 1
	}
	return code
}

// buildRecognizer wires voice input, falling back to the no-op
// implementation when voice mode is off.
func (r Runner) buildRecognizer(cfg config.Config, client *api.Client, logger *slog.Logger) speech.Input {
	if !cfg.Speech.VoiceMode {
		return speech.NoopInput{}
	}

	debugDir := ""
	if cfg.Debug.AudioDump {
		if stateDir, err := logging.StateDir(); err == nil {
			debugDir = filepath.Join(stateDir, "audio")
		}
	}

	return asr.New(client, asr.Options{
		Input:    cfg.Audio.Input,
		Fallback: cfg.Audio.Fallback,
		DebugDir: debugDir,
		Logger:   logger,
	})
}

// buildSpeaker wires spoken prompts, degrading to silent operation
// when no playback command is available.
func (r Runner) buildSpeaker(cfg config.Config, logger *slog.Logger) speech.Output {
	if !cfg.Speech.VoiceMode {
		return speech.NoopOutput{}
	}

	speaker, err := tts.New(cfg.Speech.TTSCmd.Argv, logger)
	if err != nil {
		fmt.Fprintln(r.Stderr, "warning: spoken prompts disabled: no tts_cmd configured")
		return speech.NoopOutput{}
	}
	return speaker
}

func (r Runner) runInterviewLoop(ctx context.Context, cfg config.Config, controller *session.Controller) int {
	err := controller.Start(ctx, api.StartRequest{
		Name:          cfg.Candidate.Name,
		JobRole:       cfg.Candidate.JobRole,
		InterviewType: cfg.Candidate.InterviewType,
	})
	if err != nil {
		var verr *api.ValidationError
		if errors.As(err, &verr) && verr.Field == "name" {
			fmt.Fprintln(r.Stderr, "error: candidate name is required; set candidate.name in the config or pass --name")
			return 2
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	r.printQuestion(controller.View())
	fmt.Fprintln(r.Stdout, "Type your answer, or use /mic, /next, /end, /quit.")

	scanner := bufio.NewScanner(r.stdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		select {
		case <-ctx.Done():
			return 0
		default:
		}

		if !scanner.Scan() {
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		before := controller.View()

		switch line {
		case "/quit":
			return 0
		case "/mic":
			if err := controller.ToggleMicrophone(ctx); err != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
			}
		case "/next":
			if err := controller.AdvanceManually(ctx); err != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
			}
		case "/end":
			if err := controller.EndInterview(ctx); err != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
			}
		default:
			if err := controller.SubmitAnswer(ctx, line); err != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
			}
		}

		view := controller.View()

		if view.State == fsm.StateCompleted {
			r.finishInterview(controller)
			return 0
		}

		if view.Feedback != "" && view.Feedback != before.Feedback {
			fmt.Fprintf(r.Stdout, "\n%s\n", view.Feedback)
		}
		if view.Hint != "" && view.Hint != before.Hint {
			fmt.Fprintf(r.Stdout, "\nHint: %s\n", view.Hint)
		}
		if view.Err != "" {
			fmt.Fprintf(r.Stdout, "\n%s\n", view.Err)
		}
		if view.Question != before.Question {
			r.printQuestion(view)
		}
	}
}

func (r Runner) printQuestion(view session.View) {
	if view.Question == "" {
		return
	}
	label := fmt.Sprintf("Question %d", view.QuestionNumber)
	if view.TotalQuestions > 0 {
		label = fmt.Sprintf("Question %d of %d", view.QuestionNumber, view.TotalQuestions)
	}
	if view.IsFollowUp {
		label = "Follow-up"
	}
	fmt.Fprintf(r.Stdout, "\n%s: %s\n", label, view.Question)
}

func (r Runner) finishInterview(controller *session.Controller) {
	result, ok := controller.Summary()
	if !ok {
		return
	}

	fmt.Fprintln(r.Stdout)
	summary.Render(r.Stdout, result)

	store, err := storage.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "warning: could not save summary: %v\n", err)
		return
	}
	path, err := store.Save(result)
	if err != nil {
		fmt.Fprintf(r.Stderr, "warning: could not save summary: %v\n", err)
		return
	}
	fmt.Fprintf(r.Stdout, "\nSummary saved to %s\n", path)
}

func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) || isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
