package stats

import (
	"reflect"
	"strings"
	"testing"
)

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0m 0s"},
		{59.9, "0m 59s"},
		{60, "1m 0s"},
		{200, "3m 20s"},
		{-5, "0m 0s"},
	}
	for _, tc := range cases {
		if got := FormatSeconds(tc.seconds); got != tc.want {
			t.Fatalf("FormatSeconds(%.1f) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	got := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MovingAverage = %v, want %v", got, want)
	}

	passthrough := MovingAverage(values, 1)
	if !reflect.DeepEqual(passthrough, values) {
		t.Fatalf("window 1 must pass values through, got %v", passthrough)
	}
}

func TestSparkline(t *testing.T) {
	if out := Sparkline(nil); out != "" {
		t.Fatalf("empty input: %q", out)
	}
	out := Sparkline([]float64{1, 1, 1})
	if len(out) != 3 {
		t.Fatalf("flat sparkline length %d, want 3", len(out))
	}
	out = Sparkline([]float64{0, 5, 10})
	if len(out) != 3 || out[0] == out[2] {
		t.Fatalf("rising sparkline should differ at endpoints: %q", out)
	}
}

func TestFormatTable(t *testing.T) {
	headers := []string{"User", "Segments"}
	rows := [][]string{
		{"Ada Lovelace", "12"},
		{"Bo Li", "3"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) != len(lines[0]) {
			t.Fatalf("line %d width %d, header width %d:\n%q\n%q", i, len(lines[i]), len(lines[0]), lines[i], lines[0])
		}
	}
	if !strings.HasPrefix(lines[0], "User ") || !strings.HasSuffix(lines[0], "Segments") {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Bo Li ") || !strings.HasSuffix(lines[2], " 3") {
		t.Fatalf("right-aligned cell wrong: %q", lines[2])
	}
}
