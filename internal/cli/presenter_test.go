package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/iterprogress/internal/orchestration"
	"github.com/agbru/iterprogress/internal/ui"
	"github.com/agbru/iterprogress/progress"
)

func TestPresentSummary(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.NoColorTheme)

	last := records(progress.Range(3))[2]
	results := []orchestration.RunResult{
		{Name: "fib", Items: 12000, Duration: 1500 * time.Millisecond, Last: &last},
		{Name: "lines", Err: errors.New("open: no such file")},
	}

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentSummary(results, &buf)
	output := buf.String()

	for _, want := range []string{"Run Summary", "Workload", "Items", "Duration", "Rate", "Status", "fib", "12,000", "1.5s", "✅ Success", "❌ Failure (open: no such file)", "< 1µs"} {
		if !strings.Contains(output, want) {
			t.Errorf("summary should contain %q, got:\n%s", want, output)
		}
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	header := lines[1]
	row := lines[2]
	if strings.Index(header, "Items") != strings.Index(row, "12,000") {
		t.Errorf("columns are not aligned:\n%s\n%s", header, row)
	}
}

func TestPadRight(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s      string
		length int
		want   string
	}{
		{"", 3, "   "},
		{"ab", 2, "ab  "},
		{"ab", 0, "ab"},
		{"ab", -1, "ab"},
	}
	for _, tt := range tests {
		if got := padRight(tt.s, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.s, tt.length, got, tt.want)
		}
	}
}
