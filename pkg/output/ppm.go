package output

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// intensity keeps quantized channels at or below 255
var intensity = core.NewInterval(0.000, 0.999)

// linearToGamma applies gamma 2 correction
func linearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// quantize maps a linear channel value to a byte
func quantize(linear float64) int {
	return int(255.999 * intensity.Clamp(linearToGamma(linear)))
}

// WriteColor writes one pixel as an "r g b" line
func WriteColor(w io.Writer, pixel core.Vec3) error {
	_, err := fmt.Fprintf(w, "%d %d %d\n", quantize(pixel.X), quantize(pixel.Y), quantize(pixel.Z))
	return err
}

// WritePPM writes frame as a plain-text (P3) PPM image, top row first
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for _, pixel := range frame.Pixels {
		if err := WriteColor(bw, pixel); err != nil {
			return fmt.Errorf("failed to write PPM pixel: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM output: %w", err)
	}
	return nil
}
