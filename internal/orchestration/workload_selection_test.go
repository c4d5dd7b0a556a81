package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/iterprogress/internal/workload"
)

func names(ws []workload.Workload) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Name
	}
	return out
}

// TestGetWorkloadsToRun tests the GetWorkloadsToRun function.
func TestGetWorkloadsToRun(t *testing.T) {
	t.Parallel()
	factory := workload.NewDefaultRegistry()

	t.Run("Single workload", func(t *testing.T) {
		t.Parallel()
		ws, err := GetWorkloadsToRun([]string{"fib"}, factory)
		require.NoError(t, err)
		assert.Equal(t, []string{"fib"}, names(ws))
		assert.NotNil(t, ws[0].New)
	})

	t.Run("All expands in sorted order", func(t *testing.T) {
		t.Parallel()
		ws, err := GetWorkloadsToRun([]string{"all"}, factory)
		require.NoError(t, err)
		assert.Equal(t, factory.List(), names(ws))
	})

	t.Run("Request order and duplicates", func(t *testing.T) {
		t.Parallel()
		ws, err := GetWorkloadsToRun([]string{"ticker", "fib", "ticker", "all"}, factory)
		require.NoError(t, err)
		assert.Equal(t, []string{"ticker", "fib", "lines", "primes"}, names(ws))
	})

	t.Run("Unknown workload", func(t *testing.T) {
		t.Parallel()
		_, err := GetWorkloadsToRun([]string{"fib", "nope"}, factory)
		assert.ErrorContains(t, err, "nope")
	})
}
