package api

// StartRequest opens a new mock interview session.
type StartRequest struct {
	Name          string `json:"name"`
	JobRole       string `json:"job_role"`
	InterviewType string `json:"interview_type"`
}

// Session is the server's view of a freshly started interview.
// WelcomeMessage is only present for behavioral interviews.
type Session struct {
	SessionID      string `json:"session_id"`
	InterviewType  string `json:"interview_type"`
	FirstQuestion  string `json:"first_question"`
	TotalQuestions int    `json:"total_questions"`
	WelcomeMessage string `json:"welcome_message,omitempty"`
}

// InteractResponse is the server's reply to a submitted answer. Which
// fields are populated depends on the detected intent: a repeat
// carries Question, a hint carries Hint, a pause carries PauseSeconds,
// and a normal answer carries the next question plus optional
// feedback.
type InteractResponse struct {
	Intent           Intent `json:"intent"`
	SessionID        string `json:"session_id"`
	Message          string `json:"message"`
	Question         string `json:"question,omitempty"`
	Hint             string `json:"hint,omitempty"`
	PauseSeconds     int    `json:"pause_seconds,omitempty"`
	Feedback         string `json:"feedback,omitempty"`
	NextQuestion     string `json:"next_question,omitempty"`
	FollowUpQuestion string `json:"follow_up_question,omitempty"`
	IsFollowUp       bool   `json:"is_followup,omitempty"`
	QuestionNumber   int    `json:"question_number,omitempty"`
	TotalQuestions   int    `json:"total_questions,omitempty"`
	Completed        bool   `json:"completed,omitempty"`
}

// NextQuestionText returns whichever question field the server chose
// to populate for this reply.
func (r InteractResponse) NextQuestionText() string {
	switch {
	case r.NextQuestion != "":
		return r.NextQuestion
	case r.FollowUpQuestion != "":
		return r.FollowUpQuestion
	default:
		return r.Question
	}
}

// FeedbackText returns the spoken acknowledgement for a normal
// answer, falling back to the server's message and then a generic
// thank-you so the session always has something to say.
func (r InteractResponse) FeedbackText() string {
	if r.Feedback != "" {
		return r.Feedback
	}
	if r.Message != "" {
		return r.Message
	}
	return "Thank you for your answer."
}

// NextQuestionResponse answers an explicit skip to the next main
// question. No evaluation happens server-side.
type NextQuestionResponse struct {
	SessionID      string `json:"session_id"`
	Message        string `json:"message"`
	NextQuestion   string `json:"next_question,omitempty"`
	IsFollowUp     bool   `json:"is_followup"`
	QuestionNumber int    `json:"question_number,omitempty"`
	TotalQuestions int    `json:"total_questions,omitempty"`
	Completed      bool   `json:"completed,omitempty"`
}

// Summary is the end-of-interview report. OverallScores maps rubric
// metrics to "Score: X/10" strings; AreasOfImprovement maps category
// names to advice text.
type Summary struct {
	SessionID          string            `json:"session_id"`
	Name               string            `json:"name"`
	JobRole            string            `json:"job_role"`
	InterviewType      string            `json:"interview_type"`
	TotalQuestions     int               `json:"total_questions"`
	TotalAnswers       int               `json:"total_answers"`
	OverallScores      map[string]string `json:"overall_scores"`
	AreasOfImprovement map[string]string `json:"areas_of_improvement"`
	ClosingMessage     string            `json:"closing_message,omitempty"`
}

// VoiceResult is the transcription outcome for an uploaded recording.
// Evaluation is free-form rubric text and may be empty.
type VoiceResult struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	Question   string `json:"question,omitempty"`
	Message    string `json:"message,omitempty"`
	Evaluation string `json:"evaluation,omitempty"`
}

// EvaluateResult scores a typed answer against the server's rubric.
type EvaluateResult struct {
	Success      bool   `json:"success"`
	Evaluation   string `json:"evaluation,omitempty"`
	RubricUsed   bool   `json:"rubric_used,omitempty"`
	RubricSource string `json:"rubric_source,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ChatContext scopes a chatbot question to what the candidate is
// currently practicing. Field names follow the server's camelCase.
type ChatContext struct {
	CurrentQuestion string `json:"currentQuestion,omitempty"`
	Skill           string `json:"skill,omitempty"`
	Role            string `json:"role,omitempty"`
	InterviewType   string `json:"interviewType,omitempty"`
}

// ChatMessage is one turn of chatbot conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest asks the preparation assistant a question.
type ChatRequest struct {
	Message             string        `json:"message"`
	Context             ChatContext   `json:"context,omitempty"`
	ConversationHistory []ChatMessage `json:"conversationHistory,omitempty"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Message  string `json:"message"`
}

type questionsResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Questions []string `json:"questions"`
}

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
