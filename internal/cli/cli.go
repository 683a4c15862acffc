// Package cli parses the command line surface of the interview tool.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandInterview Command = "interview"
	CommandAsk       Command = "ask"
	CommandQuestions Command = "questions"
	CommandEvaluate  Command = "evaluate"
	CommandSummary   Command = "summary"
	CommandMic       Command = "mic"
	CommandNext      Command = "next"
	CommandEnd       Command = "end"
	CommandStatus    Command = "status"
	CommandSignUp    Command = "signup"
	CommandLogin     Command = "login"
	CommandLogout    Command = "logout"
	CommandWhoami    Command = "whoami"
	CommandDevices   Command = "devices"
	CommandDoctor    Command = "doctor"
	CommandVersion   Command = "version"
	CommandHelp      Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandInterview: {},
	CommandAsk:       {},
	CommandQuestions: {},
	CommandEvaluate:  {},
	CommandSummary:   {},
	CommandMic:       {},
	CommandNext:      {},
	CommandEnd:       {},
	CommandStatus:    {},
	CommandSignUp:    {},
	CommandLogin:     {},
	CommandLogout:    {},
	CommandWhoami:    {},
	CommandDevices:   {},
	CommandDoctor:    {},
	CommandVersion:   {},
	CommandHelp:      {},
}

// commandArity maps commands to the positional arguments they accept.
var commandArity = map[Command]struct{ min, max int }{
	CommandAsk:       {1, -1}, // question words, joined
	CommandQuestions: {2, 2},  // interview type and skill
	CommandEvaluate:  {1, -1}, // question words, joined; answer read from stdin
	CommandSignUp:    {2, -1}, // email then full name words
	CommandLogin:     {1, 2},  // email, optional password (else prompted)
}

type Parsed struct {
	Command    Command
	ConfigPath string

	// Candidate overrides for the interview command.
	Name string
	Role string
	Type string

	// TextOnly forces voice mode off for this run.
	TextOnly bool

	// Positional arguments after the command.
	Args []string

	ShowHelp bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	haveCommand := false

	takeValue := func(flag string, i *int) (string, error) {
		*i++
		if *i >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if haveCommand && !strings.HasPrefix(arg, "-") {
			parsed.Args = append(parsed.Args, arg)
			continue
		}

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
			haveCommand = true
		case "--config":
			value, err := takeValue(arg, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.ConfigPath = value
		case "--name":
			value, err := takeValue(arg, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Name = value
		case "--role":
			value, err := takeValue(arg, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Role = value
		case "--type":
			value, err := takeValue(arg, &i)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Type = value
		case "--text":
			parsed.TextOnly = true
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			haveCommand = true
		}
	}

	if err := checkArity(parsed); err != nil {
		return Parsed{}, err
	}
	return parsed, nil
}

func checkArity(parsed Parsed) error {
	arity, ok := commandArity[parsed.Command]
	if !ok {
		if len(parsed.Args) > 0 {
			return fmt.Errorf("unexpected arguments after command %q", parsed.Command)
		}
		return nil
	}

	if len(parsed.Args) < arity.min {
		switch parsed.Command {
		case CommandAsk:
			return errors.New("ask requires a question, e.g.: ask how do I explain gaps in my resume")
		case CommandQuestions:
			return errors.New("questions requires an interview type and a skill, e.g.: questions technical python")
		case CommandEvaluate:
			return errors.New("evaluate requires a question, e.g.: evaluate what is a goroutine")
		case CommandSignUp:
			return errors.New("signup requires an email and a full name, e.g.: signup aisha@example.com Aisha Khan")
		case CommandLogin:
			return errors.New("login requires an email, e.g.: login aisha@example.com")
		}
		return fmt.Errorf("%s requires at least %d argument(s)", parsed.Command, arity.min)
	}
	if arity.max >= 0 && len(parsed.Args) > arity.max {
		return fmt.Errorf("too many arguments for command %q", parsed.Command)
	}
	return nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [flags] <command> [args]

Commands:
  interview             Start a mock interview session
  ask QUESTION...       Ask the preparation assistant a question
  questions TYPE SKILL  List practice questions for a type and skill
  evaluate QUESTION...  Score a typed practice answer (answer read from stdin)
  summary               Show the most recent interview summary
  mic                   Toggle the microphone of the running session
  next                  Skip to the next question in the running session
  end                   End the running session and show the summary
  status                Print the running session state
  signup EMAIL NAME...  Register a new account
  login EMAIL [PASS]    Log in and store the session cookie
  logout                Log out and discard the session cookie
  whoami                Show the logged-in account
  devices               List available audio input devices
  doctor                Run configuration and connectivity checks
  version               Print version information
  help                  Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/practice2panel/config.jsonc)
  --name NAME     Candidate name for the interview command
  --role ROLE     Target job role for the interview command
  --type TYPE     Interview type: conceptual, behavioral, or technical
  --text          Disable voice mode for this run (type all answers)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
