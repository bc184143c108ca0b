package interviewernode

import (
	"time"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
	statex "github.com/cafi-ai/voice-interviewer/agent/state"
)

// GraphInput is what the runtime hands the session-start graph once a
// participant is present.
type GraphInput struct {
	Identity string
	// Domain switches question resolution to the catalog strategy when set;
	// otherwise the interview id parsed from the identity drives the lookup.
	Domain    string
	AgentName string
}

// GraphOutput is a ready-to-run interview: resolved questions, seeded
// script, and the greeting to speak.
type GraphOutput struct {
	Session   *statex.InterviewSession
	Questions []string
	Script    string
	Greeting  string
}

type GraphState struct {
	SessionID string
	AgentName string
	Now       time.Time

	UserID string
	Ref    contractx.SessionRef

	Session   *statex.InterviewSession
	Questions []string
	Script    string
	Greeting  string
}
