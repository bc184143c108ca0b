package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

// Phase is the coarse stage of the interview state machine. Transitions are
// linear: Introduction -> Questioning -> Concluded, no cycles, no re-entry.
type Phase string

const (
	PhaseIntroduction Phase = "introduction"
	PhaseQuestioning  Phase = "questioning"
	PhaseConcluded    Phase = "concluded"
)

var (
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrNoQuestions       = errors.New("question set is empty")
)

// InterviewSession is the in-memory source of truth for one scripted
// interview. It is owned exclusively by the orchestrator for the session's
// lifetime and dropped when the runtime tears the session down.
//
// The pointer/phase fields are guarded by a mutex so overlapping save
// confirmations stay race-free, but the session deliberately performs no
// dedup or ordering check on saves: every confirmed save advances the
// pointer by exactly one, and the pointer never decreases.
type InterviewSession struct {
	SessionID string
	UserID    string
	Ref       contractx.SessionRef
	StartedAt time.Time

	mu            sync.Mutex
	phase         Phase
	questionCount int
	saved         int
}

func NewInterviewSession(sessionID, userID string, ref contractx.SessionRef, now time.Time) *InterviewSession {
	return &InterviewSession{
		SessionID: sessionID,
		UserID:    userID,
		Ref:       ref,
		StartedAt: now.UTC(),
		phase:     PhaseIntroduction,
	}
}

func (s *InterviewSession) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// CurrentQuestionNumber is the 0-based index of the question being asked,
// i.e. the number of confirmed saves so far.
func (s *InterviewSession) CurrentQuestionNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// BeginQuestioning moves the session out of Introduction once the greeting
// has been emitted and the question set is known.
func (s *InterviewSession) BeginQuestioning(questionCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIntroduction {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.phase, PhaseQuestioning)
	}
	if questionCount <= 0 {
		return ErrNoQuestions
	}
	s.questionCount = questionCount
	s.phase = PhaseQuestioning
	return nil
}

// ConfirmSave records one successful answer save. It returns the number of
// confirmed saves and whether this particular save moved the session into
// Concluded. The transition fires exactly once: saves arriving after the
// question set is exhausted still count (and were persisted by the caller)
// but report concluded=false.
func (s *InterviewSession) ConfirmSave() (saved int, concluded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved++
	if s.phase == PhaseQuestioning && s.saved >= s.questionCount {
		s.phase = PhaseConcluded
		return s.saved, true
	}
	return s.saved, false
}

func (s *InterviewSession) Concluded() bool {
	return s.Phase() == PhaseConcluded
}

func (s *InterviewSession) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseIntroduction, PhaseQuestioning, PhaseConcluded:
	default:
		return fmt.Errorf("%w: unknown phase %q", contractx.ErrValidation, s.phase)
	}
	if s.phase != PhaseIntroduction && s.questionCount <= 0 {
		return fmt.Errorf("%w: questioning without a question set", contractx.ErrValidation)
	}
	if s.saved < 0 {
		return fmt.Errorf("%w: negative save count", contractx.ErrValidation)
	}
	return nil
}
