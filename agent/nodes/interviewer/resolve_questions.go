package interviewernode

import (
	"context"
	"fmt"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

// ResolveQuestions fetches the ordered question set once per session. A
// failure here is fatal: the session cannot proceed without questions.
func ResolveQuestions(ctx context.Context, in *GraphState, source contractx.QuestionSource) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	qs, err := source.Resolve(ctx, in.Ref)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: resolved question set is empty", contractx.ErrNotFound)
	}

	in.Questions = qs
	return in, nil
}
