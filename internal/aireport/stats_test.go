package aireport

import "testing"

func TestPct(t *testing.T) {
	if got := Pct(0, 0); got != nil {
		t.Fatalf("zero attempts should yield nil, got %v", *got)
	}
	if got := Pct(5, 10); got == nil || *got != 50.0 {
		t.Fatalf("expected 50.0, got %v", got)
	}
	// 9/16 is exactly 56.25; halves round away from zero.
	if got := Pct(9, 16); got == nil || *got != 56.3 {
		t.Fatalf("expected 56.3, got %v", got)
	}
	if got := Pct(16, 16); got == nil || *got != 100.0 {
		t.Fatalf("expected 100.0, got %v", got)
	}
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{56.25, 56.3},
		{56.24, 56.2},
		{0, 0},
		{99.99, 100},
		{33.333333, 33.3},
	}
	for _, c := range cases {
		if got := Round1(c.in); got != c.want {
			t.Fatalf("Round1(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
