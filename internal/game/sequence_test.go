package game

import (
	"testing"
	"time"
)

type fixedRand struct{ n int }

func (r fixedRand) IntN(n int) int { return r.n % n }

func TestNewSequenceLength(t *testing.T) {
	for level := 1; level <= MaxLevel+2; level++ {
		seq := NewSequence(DefaultRand(), level, MaxLevel, GridSize)
		want := 2 + min(level, MaxLevel)
		if len(seq) != want {
			t.Fatalf("level %d: len = %d; want %d", level, len(seq), want)
		}
		for _, v := range seq {
			if v < 0 || v >= GridSize {
				t.Fatalf("cell %d out of grid", v)
			}
		}
	}
}

func TestNewTarget(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tg := NewTarget(fixedRand{n: 4}, now, GridSize)
	if tg.ID != 1700000000123 || tg.Position != 4 {
		t.Fatalf("unexpected target %+v", tg)
	}
}

func TestTimings(t *testing.T) {
	tm := DefaultTimings()
	if got := tm.SequenceDisplay(3); got != 4400*time.Millisecond {
		t.Fatalf("SequenceDisplay(3) = %v", got)
	}
	if got := tm.MotorSeconds(1); got != 12 {
		t.Fatalf("MotorSeconds(1) = %d", got)
	}
}

func TestMatchPolicy(t *testing.T) {
	target := []int{4, 1, 7}
	cases := []struct {
		policy    MatchPolicy
		submitted []int
		want      bool
	}{
		{MatchPrefix, []int{4, 1, 7}, true},
		{MatchPrefix, []int{4, 1}, true},
		{MatchPrefix, []int{}, true},
		{MatchPrefix, []int{4, 2, 7}, false},
		{MatchPrefix, []int{4, 1, 7, 0}, false},
		{MatchExact, []int{4, 1, 7}, true},
		{MatchExact, []int{4, 1}, false},
		{MatchExact, nil, false},
	}

	for _, tc := range cases {
		if got := tc.policy.Matches(target, tc.submitted); got != tc.want {
			t.Fatalf("%s.Matches(%v) = %v; want %v", tc.policy, tc.submitted, got, tc.want)
		}
	}
}

func TestParseMatchPolicy(t *testing.T) {
	if p, err := ParseMatchPolicy(""); err != nil || p != MatchPrefix {
		t.Fatalf("default policy = %q, %v", p, err)
	}
	if p, err := ParseMatchPolicy(" EXACT "); err != nil || p != MatchExact {
		t.Fatalf("exact policy = %q, %v", p, err)
	}
	if _, err := ParseMatchPolicy("fuzzy"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
