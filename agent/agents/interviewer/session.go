package interviewer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
	nodex "github.com/cafi-ai/voice-interviewer/agent/nodes/interviewer"
	statex "github.com/cafi-ai/voice-interviewer/agent/state"
)

// liveSession is the per-session capability surface. It owns the resolved
// question set and the phase machine, delegates saves to the answer store,
// and closes done when the final expected answer has been confirmed.
type liveSession struct {
	state     *statex.InterviewSession
	questions []string
	answers   contractx.AnswerStore
	log       zerolog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func newLiveSession(out nodex.GraphOutput, answers contractx.AnswerStore, log zerolog.Logger) *liveSession {
	return &liveSession{
		state:     out.Session,
		questions: out.Questions,
		answers:   answers,
		log:       log.With().Str("session_id", out.Session.SessionID).Logger(),
		done:      make(chan struct{}),
	}
}

// FetchQuestions returns the set resolved once at session start, verbatim
// and in order. Repeated calls get the identical sequence; the ref supplied
// by the reasoning process is trusted and not re-resolved.
func (s *liveSession) FetchQuestions(ctx context.Context, ref contractx.SessionRef) ([]string, error) {
	if ref.InterviewID != "" && ref.InterviewID != s.state.Ref.InterviewID {
		s.log.Debug().Str("supplied", ref.InterviewID).Msg("fetch_questions ref differs from session ref")
	}
	return append([]string(nil), s.questions...), nil
}

// SaveAnswer persists one question/answer pair and advances the phase
// machine on success. The store performs no dedup; a duplicate call produces
// a second record and still counts as a confirmed save.
func (s *liveSession) SaveAnswer(ctx context.Context, req contractx.SaveAnswerRequest) (string, error) {
	if req.Ref.InterviewID == "" {
		req.Ref.InterviewID = s.state.Ref.InterviewID
	}
	req.Ref.Domain = s.state.Ref.Domain

	recordID, err := s.answers.Save(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Int("question_number", req.QuestionNumber).Msg("save answer failed")
		return "", err
	}

	saved, concluded := s.state.ConfirmSave()
	s.log.Info().
		Str("record_id", recordID).
		Int("question_number", req.QuestionNumber).
		Int("saved", saved).
		Msg("answer saved")

	if concluded {
		s.closeOnce.Do(func() { close(s.done) })
	}
	return recordID, nil
}

// Done is closed once the Nth expected answer has been saved.
func (s *liveSession) Done() <-chan struct{} {
	return s.done
}
