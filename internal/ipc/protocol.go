// Package ipc carries control commands between a running interview
// session and follow-up CLI invocations over a unix socket. One
// newline-delimited JSON request and one response per connection.
package ipc

// Commands accepted by a running session.
const (
	CommandStatus = "status"
	CommandMic    = "mic"
	CommandNext   = "next"
	CommandEnd    = "end"
)

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK             bool   `json:"ok"`
	State          string `json:"state,omitempty"`
	Question       string `json:"question,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
}
