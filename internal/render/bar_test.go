package render

import (
	"strings"
	"testing"
)

func TestBarFill(t *testing.T) {
	cs := asciiCharset
	cases := []struct {
		percent float64
		filled  int
		label   string
	}{
		{0, 0, "0.0%"},
		{50, 11, "50.0%"},
		{100, barWidth, "100.0%"},
		{-20, 0, "0.0%"},
		{250, barWidth, "100.0%"},
	}
	for _, c := range cases {
		got := bar(c.percent, cs)
		if n := strings.Count(got, cs.barFill); n != c.filled {
			t.Fatalf("bar(%v) filled %d cells, want %d: %q", c.percent, n, c.filled, got)
		}
		if !strings.HasSuffix(got, c.label) {
			t.Fatalf("bar(%v) = %q, want %q suffix", c.percent, got, c.label)
		}
	}
}

func TestBarRoundsToNearestCell(t *testing.T) {
	cs := asciiCharset
	// 2.2% of 22 cells is 0.484, rounding down; 2.3% is 0.506, up.
	if n := strings.Count(bar(2.2, cs), cs.barFill); n != 0 {
		t.Fatalf("bar(2.2) filled %d, want 0", n)
	}
	if n := strings.Count(bar(2.3, cs), cs.barFill); n != 1 {
		t.Fatalf("bar(2.3) filled %d, want 1", n)
	}
}
