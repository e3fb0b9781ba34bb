package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), KindInternal},
		{"not found", NotFound("post not found"), KindNotFound},
		{"wrapped twice", fmt.Errorf("load: %w", Forbidden("nope")), KindForbidden},
		{"dependency", Dependency(errors.New("dial tcp"), "identity provider unavailable"), KindDependency},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("%s: KindOf = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("toggle: %w", NotFound("post not found"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("did not expect a match with ErrForbidden")
	}
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	err := Internal(errors.New("pq: relation \"posts\" does not exist"))
	if got := MessageOf(err); got != "internal server error" {
		t.Errorf("MessageOf = %q", got)
	}
	if got := MessageOf(errors.New("raw driver error")); got != "internal server error" {
		t.Errorf("MessageOf(raw) = %q", got)
	}
	if got := MessageOf(Validation("body is required")); got != "body is required" {
		t.Errorf("MessageOf(validation) = %q", got)
	}
}

func TestInternalKeepsClassifiedErrors(t *testing.T) {
	orig := AlreadyExists("already following")
	if got := Internal(orig); KindOf(got) != KindAlreadyExists {
		t.Errorf("Internal reclassified %v as %s", orig, KindOf(got))
	}
	if Internal(nil) != nil {
		t.Errorf("Internal(nil) should be nil")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, KindInternal, "x") != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
}
