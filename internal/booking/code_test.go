package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var codePattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{8}$`)

func TestGenerateShape(t *testing.T) {
	g := NewCodeGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, codePattern)
		}
		seen[code] = true
	}
	// 10k draws from ~10^12 combinations should essentially never
	// collide; a noticeable number of duplicates means the generator
	// is biased or broken.
	if len(seen) < 9990 {
		t.Errorf("only %d unique codes out of 10000", len(seen))
	}
}

func TestEnsureUniqueRetriesOnCollision(t *testing.T) {
	g := NewCodeGenerator()
	calls := 0
	code, err := g.EnsureUnique(context.Background(), func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls <= 3, nil // first three codes "taken"
	})
	if err != nil {
		t.Fatalf("EnsureUnique: %v", err)
	}
	if calls != 4 {
		t.Errorf("exists called %d times, want 4", calls)
	}
	if !codePattern.MatchString(code) {
		t.Errorf("code %q does not match %s", code, codePattern)
	}
}

func TestEnsureUniqueGivesUpEventually(t *testing.T) {
	g := NewCodeGenerator()
	calls := 0
	_, err := g.EnsureUnique(context.Background(), func(ctx context.Context, code string) (bool, error) {
		calls++
		return true, nil // every code "taken"
	})
	if err == nil {
		t.Fatal("expected error when every code is taken")
	}
	if calls != maxCodeAttempts {
		t.Errorf("exists called %d times, want %d", calls, maxCodeAttempts)
	}
}

func TestEnsureUniquePropagatesLookupError(t *testing.T) {
	g := NewCodeGenerator()
	boom := errors.New("db down")
	_, err := g.EnsureUnique(context.Background(), func(ctx context.Context, code string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("EnsureUnique error = %v, want %v", err, boom)
	}
}
