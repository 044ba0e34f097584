package engine

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Pick(5)
		b := rng2.Pick(5)
		if a != b {
			t.Fatalf("pick %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Pick_Range(t *testing.T) {
	rng := NewRNG(99)
	seen := map[int]bool{}

	for i := 0; i < 1000; i++ {
		r := rng.Pick(5)
		if r < 0 || r >= 5 {
			t.Fatalf("pick out of range [0,5): got %d", r)
		}
		seen[r] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected every index to come up, saw %v", seen)
	}
}

func TestRNG_Pick_Single(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if r := rng.Pick(1); r != 0 {
			t.Fatalf("single option should always be 0, got %d", r)
		}
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)
	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Pick(5)
	rng.Pick(5)
	if rng.Position() != 2 {
		t.Fatalf("expected position 2, got %d", rng.Position())
	}
	if rng.Seed() != 42 {
		t.Errorf("Seed() = %d, want 42", rng.Seed())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG to position 10 and record the next 5 picks.
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		rng.Pick(5)
	}

	var expected [5]int
	for i := range expected {
		expected[i] = rng.Pick(5)
	}

	restored := RestoreRNG(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}
	for i, want := range expected {
		if got := restored.Pick(5); got != want {
			t.Fatalf("pick %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Pick(100) != rng2.Pick(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}
