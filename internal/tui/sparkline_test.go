package tui

import (
	"slices"
	"testing"
	"unicode/utf8"
)

func TestRateHistory_PushAndSlice(t *testing.T) {
	t.Parallel()

	h := newRateHistory(3)
	if h.Slice() != nil {
		t.Error("expected nil slice for empty history")
	}
	h.Push(1)
	h.Push(2)
	h.Push(3)
	if got := h.Slice(); !slices.Equal(got, []float64{1, 2, 3}) {
		t.Errorf("Slice() = %v", got)
	}

	h.Push(4) // overwrites 1
	if got := h.Slice(); !slices.Equal(got, []float64{2, 3, 4}) {
		t.Errorf("Slice() after overflow = %v", got)
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
}

func TestRateHistory_Last(t *testing.T) {
	t.Parallel()

	h := newRateHistory(2)
	if h.Last() != 0 {
		t.Error("expected 0 for empty history")
	}
	h.Push(10)
	h.Push(20)
	h.Push(30)
	if h.Last() != 30 {
		t.Errorf("Last() = %f, want 30", h.Last())
	}
}

func TestRateHistory_Reset(t *testing.T) {
	t.Parallel()

	h := newRateHistory(4)
	h.Push(1)
	h.Push(2)
	h.Reset()
	if h.Len() != 0 || h.Last() != 0 {
		t.Errorf("expected empty history after reset, got len %d", h.Len())
	}
	h.Push(5)
	if got := h.Slice(); !slices.Equal(got, []float64{5}) {
		t.Errorf("Slice() = %v", got)
	}
}

func TestRateHistory_ZeroCapacity(t *testing.T) {
	t.Parallel()

	h := newRateHistory(0)
	h.Push(1)
	h.Push(2)
	if got := h.Slice(); !slices.Equal(got, []float64{2}) {
		t.Errorf("Slice() = %v", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 3, "   "},
		{"zero width", []float64{1}, 0, ""},
		{"scaled to peak", []float64{0, 50, 100}, 3, "▁▄█"},
		{"all zero", []float64{0, 0}, 2, "▁▁"},
		{"padded", []float64{4}, 3, "  █"},
		{"truncated keeps newest", []float64{100, 0, 10}, 2, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := renderSparkline(tt.values, tt.width)
			if got != tt.want {
				t.Errorf("renderSparkline(%v, %d) = %q, want %q", tt.values, tt.width, got, tt.want)
			}
			if n := utf8.RuneCountInString(got); n != tt.width && tt.width > 0 {
				t.Errorf("width = %d, want %d", n, tt.width)
			}
		})
	}
}
