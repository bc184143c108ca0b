package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

// InterviewReader is the read path into the persistence collaborator:
// interview record by id, then all questions whose question_set_id matches.
type InterviewReader interface {
	QuestionSetID(ctx context.Context, interviewID string) (string, error)
	QuestionsBySet(ctx context.Context, questionSetID string) ([]string, error)
}

// LookupSource resolves questions through a two-hop identifier lookup:
// interview -> question_set_id -> question texts, in store-return order.
type LookupSource struct {
	reader InterviewReader
}

func NewLookupSource(reader InterviewReader) (*LookupSource, error) {
	if reader == nil {
		return nil, errors.New("interview reader is required")
	}
	return &LookupSource{reader: reader}, nil
}

func (s *LookupSource) Resolve(ctx context.Context, ref contractx.SessionRef) ([]string, error) {
	interviewID := strings.TrimSpace(ref.InterviewID)
	if interviewID == "" {
		return nil, fmt.Errorf("%w: interview id is required", contractx.ErrValidation)
	}

	setID, err := s.reader.QuestionSetID(ctx, interviewID)
	if err != nil {
		return nil, wrapStorageErr(err, fmt.Sprintf("resolve interview %s", interviewID))
	}

	qs, err := s.reader.QuestionsBySet(ctx, setID)
	if err != nil {
		return nil, wrapStorageErr(err, fmt.Sprintf("fetch questions for set %s", setID))
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: question set %s has no questions", contractx.ErrNotFound, setID)
	}
	return qs, nil
}

// wrapStorageErr keeps NotFound/Validation sentinels intact and folds every
// other storage fault into ErrPersistence.
func wrapStorageErr(err error, op string) error {
	if errors.Is(err, contractx.ErrNotFound) || errors.Is(err, contractx.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", contractx.ErrPersistence, op, err)
}
