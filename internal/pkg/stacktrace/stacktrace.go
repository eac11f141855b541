// Package stacktrace shortens panic stacks to the frames that belong to this
// module so logs stay readable.
package stacktrace

import (
	"fmt"
	"runtime"
	"strings"
)

const maxDepth = 64

// InternalFrames returns "internal/<path>.go:<line>" entries for the calling
// goroutine's stack, skipping skip frames above the caller.
func InternalFrames(skip int) []string {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []string
	for {
		frame, more := frames.Next()
		if _, rel, ok := strings.Cut(frame.File, "/internal/"); ok {
			out = append(out, fmt.Sprintf("internal/%s:%d", rel, frame.Line))
		}
		if !more {
			break
		}
	}

	return out
}
