package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgv(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty", input: "   ", want: nil},
		{name: "comment", input: "# espeak-ng", want: nil},
		{name: "simple", input: "espeak-ng -v en-us", want: []string{"espeak-ng", "-v", "en-us"}},
		{name: "double quotes", input: `piper --model "en US lessac"`, want: []string{"piper", "--model", "en US lessac"}},
		{name: "single quotes", input: "say 'hello there'", want: []string{"say", "hello there"}},
		{name: "escaped space", input: `play file\ name.wav`, want: []string{"play", "file name.wav"}},
		{name: "unterminated quote", input: `espeak-ng "oops`, wantErr: true},
		{name: "unterminated escape", input: `espeak-ng trailing\`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArgv(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
