package questions

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

// Resolver is the single Question Source capability with two interchangeable
// strategies behind it, selected by which identifying information the session
// provides: an interview id routes to the lookup strategy, a domain routes to
// the catalog.
type Resolver struct {
	lookup  contractx.QuestionSource
	catalog contractx.QuestionSource
}

func NewResolver(lookup, catalog contractx.QuestionSource) (*Resolver, error) {
	if lookup == nil {
		return nil, errors.New("lookup source is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog source is required")
	}
	return &Resolver{lookup: lookup, catalog: catalog}, nil
}

func (r *Resolver) Resolve(ctx context.Context, ref contractx.SessionRef) ([]string, error) {
	switch {
	case ref.Domain != "":
		return r.catalog.Resolve(ctx, ref)
	case ref.InterviewID != "":
		return r.lookup.Resolve(ctx, ref)
	default:
		return nil, fmt.Errorf("%w: session ref carries neither interview id nor domain", contractx.ErrValidation)
	}
}
