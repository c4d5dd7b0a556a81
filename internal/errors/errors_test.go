package apperrors

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", NewConfigError("unknown workload %q", "nope"), `unknown workload "nope"`},
		{"run", RunError{Workload: "lines", Cause: errors.New("read failed")}, `workload "lines": read failed`},
		{"timeout", TimeoutError{Operation: "ticker", Limit: 500 * time.Millisecond}, `operation "ticker" timed out after 500ms`},
		{"validation", ValidationError{Field: "-window", Message: "must be non-negative, got -1"}, `validation error for "-window": must be non-negative, got -1`},
		{"wrapped", WrapError(fs.ErrNotExist, "lines"), "lines: file does not exist"},
		{"wrapped with args", WrapError(errors.New("reset"), "dial %s:%d", "localhost", 9090), "dial localhost:9090: reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestWrapErrorNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, WrapError(nil, "ignored %d", 1))
}

func TestErrorChains(t *testing.T) {
	t.Parallel()

	timeout := RunError{Workload: "ticker", Cause: TimeoutError{Operation: "ticker", Limit: time.Second}}
	var timeoutErr TimeoutError
	require.ErrorAs(t, timeout, &timeoutErr)
	assert.Equal(t, time.Second, timeoutErr.Limit)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	missing := RunError{Workload: "lines", Cause: WrapError(fs.ErrNotExist, "lines")}
	assert.ErrorIs(t, missing, fs.ErrNotExist)
	var runErr RunError
	require.ErrorAs(t, missing, &runErr)
	assert.Equal(t, "lines", runErr.Workload)

	var validationErr ValidationError
	assert.ErrorAs(t, WrapError(ValidationError{Field: "-sample"}, "config"), &validationErr)
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want bool
	}{
		{context.Canceled, true},
		{context.DeadlineExceeded, true},
		{TimeoutError{Operation: "fib", Limit: time.Second}, true},
		{RunError{Workload: "fib", Cause: context.Canceled}, true},
		{errors.New("some error"), false},
		{nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsContextError(tt.err), "IsContextError(%v)", tt.err)
	}
}

func TestExitCodesDistinct(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorWorkload, ExitErrorConfig, ExitErrorCanceled}
	seen := make(map[int]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate exit code %d", c)
		seen[c] = true
	}
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 130, ExitErrorCanceled)
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
		{"validation", WrapError(ValidationError{Field: "-n", Message: "too large"}, "load"), ExitErrorConfig},
		{"timeout type", TimeoutError{Operation: "run", Limit: time.Second}, ExitErrorTimeout},
		{"deadline in run error", RunError{Workload: "ticker", Cause: context.DeadlineExceeded}, ExitErrorTimeout},
		{"canceled", WrapError(context.Canceled, "interrupted"), ExitErrorCanceled},
		{"canceled in run error", RunError{Workload: "primes", Cause: context.Canceled}, ExitErrorCanceled},
		{"run error", RunError{Workload: "lines", Cause: errors.New("boom")}, ExitErrorWorkload},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}
