package interviewernode

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

// ValidateJoin parses the participant identity into userId and interviewId,
// splitting on the first underscore only, and stamps the session.
func ValidateJoin(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	identity := strings.TrimSpace(in.Identity)
	if identity == "" {
		return nil, fmt.Errorf("%w: participant identity is empty", contractx.ErrValidation)
	}

	userID, interviewID, ok := strings.Cut(identity, "_")
	if !ok || userID == "" || interviewID == "" {
		return nil, fmt.Errorf("%w: participant identity %q must be userId_interviewId", contractx.ErrValidation, identity)
	}

	ref := contractx.SessionRef{InterviewID: interviewID}
	if domain := strings.TrimSpace(in.Domain); domain != "" {
		ref.Domain = domain
	}

	agentName := strings.TrimSpace(in.AgentName)
	if agentName == "" {
		agentName = "Lexi"
	}

	return &GraphState{
		SessionID: uuid.NewString(),
		AgentName: agentName,
		Now:       nowFn().UTC(),
		UserID:    userID,
		Ref:       ref,
	}, nil
}
