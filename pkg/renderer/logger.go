package renderer

import (
	"fmt"
	"io"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to a stream
type DefaultLogger struct {
	out io.Writer
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.out, format, args...)
}

// NewDefaultLogger creates a logger writing to out (stderr in the CLI, so the
// image stream stays clean)
func NewDefaultLogger(out io.Writer) core.Logger {
	return &DefaultLogger{out: out}
}

// NewDiscardLogger creates a logger that drops everything
func NewDiscardLogger() core.Logger {
	return &DefaultLogger{out: io.Discard}
}
