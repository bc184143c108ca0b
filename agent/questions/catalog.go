package questions

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

// DefaultDomain is the catalog key every unknown domain falls back to.
const DefaultDomain = "general"

// Catalog is the domain-keyed question source. It is an immutable snapshot of
// an injected domain -> questions table; resolution normalizes the domain and
// substitutes the default set on a miss, so this strategy never fails.
type Catalog struct {
	sets map[string][]string
}

func NewCatalog(sets map[string][]string) (*Catalog, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: catalog has no question sets", contractx.ErrValidation)
	}
	if len(sets[DefaultDomain]) == 0 {
		return nil, fmt.Errorf("%w: catalog must carry a %q set", contractx.ErrValidation, DefaultDomain)
	}

	copied := make(map[string][]string, len(sets))
	for domain, qs := range sets {
		key := NormalizeDomain(domain)
		if key == "" || len(qs) == 0 {
			return nil, fmt.Errorf("%w: catalog set %q is empty", contractx.ErrValidation, domain)
		}
		copied[key] = append([]string(nil), qs...)
	}
	return &Catalog{sets: copied}, nil
}

func MustNewCatalog(sets map[string][]string) *Catalog {
	c, err := NewCatalog(sets)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve returns the question set for ref.Domain, or the default set when
// the domain is unknown. The returned slice is a copy in catalog order.
func (c *Catalog) Resolve(ctx context.Context, ref contractx.SessionRef) ([]string, error) {
	key := NormalizeDomain(ref.Domain)
	qs, ok := c.sets[key]
	if !ok {
		qs = c.sets[DefaultDomain]
	}
	return append([]string(nil), qs...), nil
}

// NormalizeDomain lower-cases a free-text domain and joins words with
// underscores. It is idempotent.
func NormalizeDomain(domain string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(domain))), "_")
}

// DefaultSets is the built-in catalog used when no table is injected.
func DefaultSets() map[string][]string {
	return map[string][]string{
		"general": {
			"Tell me about yourself and your background.",
			"What attracted you to this role?",
			"Describe a challenge you faced recently and how you handled it.",
			"What do you consider your greatest professional strength?",
			"Where do you see yourself in five years?",
		},
		"data_science": {
			"Walk me through a data science project you are proud of.",
			"How do you decide between different model families for a prediction problem?",
			"Explain how you would detect and handle data leakage.",
			"How do you communicate model results to non-technical stakeholders?",
			"Describe your approach to monitoring a model in production.",
		},
		"software_engineering": {
			"Describe the architecture of a system you designed or significantly changed.",
			"How do you approach code review, both giving and receiving feedback?",
			"Tell me about a production incident you debugged end to end.",
			"How do you decide when to refactor versus rewrite?",
			"What does good test coverage mean to you?",
		},
		"product_management": {
			"How do you prioritize a roadmap when every stakeholder says their ask is urgent?",
			"Tell me about a product decision you got wrong and what you learned.",
			"How do you measure whether a launched feature is successful?",
			"Describe how you work with engineering on scope trade-offs.",
			"How do you gather and weigh user feedback?",
		},
	}
}
