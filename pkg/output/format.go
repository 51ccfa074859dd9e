package output

import (
	"fmt"
	"io"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Format names an image encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatPPM, FormatPNG:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want ppm or png)", name)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// Write encodes frame in the given format
func Write(w io.Writer, frame *renderer.Frame, format Format) error {
	switch format {
	case FormatPNG:
		return WritePNG(w, frame)
	case FormatPPM:
		return WritePPM(w, frame)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
