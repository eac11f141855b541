package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalFrames(t *testing.T) {
	frames := InternalFrames(0)

	require.NotEmpty(t, frames)
	assert.Contains(t, frames[0], "internal/pkg/stacktrace/stacktrace_test.go:")
}

func TestInternalFrames_FromPanic(t *testing.T) {
	var frames []string
	func() {
		defer func() {
			if recover() != nil {
				frames = InternalFrames(0)
			}
		}()
		panic("boom")
	}()

	assert.NotEmpty(t, frames)
}
