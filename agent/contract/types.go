package contract

// SubscribeMode selects which media tracks the session host subscribes to.
type SubscribeMode string

const (
	SubscribeAudioOnly SubscribeMode = "audio_only"
)

// Participant identifies the remote side of a live session. Identity encodes
// userId and interviewId joined by a single underscore; the controller splits
// on the first occurrence only.
type Participant struct {
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
}

// SessionRef carries whichever identifying information the session provides
// for question resolution: an opaque interview id for the lookup strategy, or
// a free-text domain for the catalog strategy.
type SessionRef struct {
	InterviewID string `json:"interview_id,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

// SaveAnswerRequest is one question/answer pair as supplied by the reasoning
// process. QuestionNumber is trusted as-is: the controller validates shape
// only and never cross-checks it against the resolved question set.
type SaveAnswerRequest struct {
	UserID         string     `json:"user_id"`
	Ref            SessionRef `json:"ref"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	QuestionNumber int        `json:"question_number"`
}

// ToolResult is what a capability invocation hands back to the reasoning
// process. Errors the model can repair (bad args, failed save) travel in
// Error rather than as Go errors.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
