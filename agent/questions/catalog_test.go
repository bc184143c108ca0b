package questions

import (
	"context"
	"errors"
	"reflect"
	"testing"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

func TestNormalizeDomain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Data Science", "data_science"},
		{"  Data   Science  ", "data_science"},
		{"data_science", "data_science"},
		{"GENERAL", "general"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDomain(tc.in); got != tc.want {
			t.Fatalf("NormalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDomainIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"Data Science", "Product Management", "general", "Quantum  Computing"}
	for _, in := range inputs {
		once := NormalizeDomain(in)
		if twice := NormalizeDomain(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCatalogResolveKnownDomain(t *testing.T) {
	t.Parallel()

	c := MustNewCatalog(DefaultSets())
	got, err := c.Resolve(context.Background(), contractx.SessionRef{Domain: "Data Science"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 data science questions, got %d", len(got))
	}

	again, err := c.Resolve(context.Background(), contractx.SessionRef{Domain: "data_science"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Fatal("resolution must be a pure function of the normalized key")
	}
}

func TestCatalogFallsBackToGeneral(t *testing.T) {
	t.Parallel()

	c := MustNewCatalog(DefaultSets())
	unknown, err := c.Resolve(context.Background(), contractx.SessionRef{Domain: "quantum_computing"})
	if err != nil {
		t.Fatalf("domain path must never fail, got %v", err)
	}
	general, err := c.Resolve(context.Background(), contractx.SessionRef{Domain: "general"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(unknown, general) {
		t.Fatal("unknown domain must map to the general set")
	}
	if len(general) != 5 {
		t.Fatalf("expected 5 general questions, got %d", len(general))
	}
}

func TestCatalogReturnsCopies(t *testing.T) {
	t.Parallel()

	c := MustNewCatalog(DefaultSets())
	first, _ := c.Resolve(context.Background(), contractx.SessionRef{Domain: "general"})
	first[0] = "mutated"

	second, _ := c.Resolve(context.Background(), contractx.SessionRef{Domain: "general"})
	if second[0] == "mutated" {
		t.Fatal("catalog leaked its backing slice")
	}
}

func TestNewCatalogRejectsMissingDefault(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog(map[string][]string{"data_science": {"q1"}})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
