package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"assertions", errAssertionsFailed, ExitAssertionFailure},
		{"shown assertions", shownError(errAssertionsFailed), ExitAssertionFailure},
		{"transport", fmt.Errorf("%w: dial tcp: refused", call.ErrTransport), ExitNetworkError},
		{"invalid url", fmt.Errorf("%w: not a url", call.ErrInvalidURL), ExitConfigError},
		{"credentials", fmt.Errorf("%w: missing consumer secret", call.ErrInvalidCredentials), ExitConfigError},
		{"parameter", fmt.Errorf("%w: empty name", call.ErrInvalidParameter), ExitConfigError},
		{"no method", call.ErrNoMethod, ExitConfigError},
		{"conflicting auth", call.ErrConflictingAuth, ExitConfigError},
		{"parse", parseError(errors.New("bad json")), ExitParseError},
		{"usage", usageError(errors.New("unknown flag")), ExitUsageError},
		{"config", configError(errors.New("bad timeout")), ExitConfigError},
		{"shown transport", shownError(fmt.Errorf("%w: timeout", call.ErrTransport)), ExitNetworkError},
		{"shown usage", shownError(usageError(errors.New("x"))), ExitUsageError},
		{"other", errors.New("boom"), ExitAssertionFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestErrorShown(t *testing.T) {
	err := fmt.Errorf("%w: refused", call.ErrTransport)
	assert.False(t, errorShown(err))

	shown := shownError(err)
	assert.True(t, errorShown(shown))
	assert.ErrorIs(t, shown, call.ErrTransport)
	assert.Equal(t, err.Error(), shown.Error())
}
