package interviewernode

import (
	"fmt"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
	promptx "github.com/cafi-ai/voice-interviewer/agent/prompt"
	statex "github.com/cafi-ai/voice-interviewer/agent/state"
)

// SeedSession creates the in-memory interview session and renders the fixed
// workflow script and greeting.
func SeedSession(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Session = statex.NewInterviewSession(in.SessionID, in.UserID, in.Ref, in.Now)
	in.Script = promptx.RenderInterviewer(promptx.Script{
		AgentName:   in.AgentName,
		UserID:      in.UserID,
		InterviewID: in.Ref.InterviewID,
	})
	in.Greeting = promptx.Greeting(in.AgentName)
	return in, nil
}

// Finalize checks the assembled state and emits the graph output.
func Finalize(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	if len(in.Questions) == 0 {
		return GraphOutput{}, fmt.Errorf("%w: no questions resolved", contractx.ErrValidation)
	}
	if err := in.Session.Validate(); err != nil {
		return GraphOutput{}, err
	}

	return GraphOutput{
		Session:   in.Session,
		Questions: in.Questions,
		Script:    in.Script,
		Greeting:  in.Greeting,
	}, nil
}
