package config

import (
	"fmt"
	"strings"
	"unicode"
)

// argv parser states.
const (
	scanPlain = iota
	scanSingle
	scanDouble
	scanEscape
)

// parseArgv splits a raw command string into argv with shell-style
// quoting rules. A leading # comments the whole command out.
func parseArgv(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" || input[0] == '#' {
		return nil, nil
	}

	var (
		argv  []string
		token strings.Builder
		state = scanPlain
		prev  = scanPlain
	)

	endToken := func() {
		if token.Len() > 0 {
			argv = append(argv, token.String())
			token.Reset()
		}
	}

	for _, r := range input {
		switch state {
		case scanEscape:
			token.WriteRune(r)
			state = prev
		case scanSingle:
			if r == '\'' {
				state = scanPlain
			} else {
				token.WriteRune(r)
			}
		case scanDouble:
			switch r {
			case '"':
				state = scanPlain
			case '\\':
				prev, state = state, scanEscape
			default:
				token.WriteRune(r)
			}
		default:
			switch {
			case r == '\\':
				prev, state = state, scanEscape
			case r == '\'':
				state = scanSingle
			case r == '"':
				state = scanDouble
			case unicode.IsSpace(r):
				endToken()
			default:
				token.WriteRune(r)
			}
		}
	}

	switch state {
	case scanEscape:
		return nil, fmt.Errorf("unterminated escape sequence in command: %q", input)
	case scanSingle, scanDouble:
		return nil, fmt.Errorf("unterminated quote in command: %q", input)
	}

	endToken()
	return argv, nil
}

func mustParseArgv(input string) []string {
	argv, err := parseArgv(input)
	if err != nil {
		panic(err)
	}
	return argv
}
