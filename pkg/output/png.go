package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// ToRGBA converts a linear frame to an 8-bit image using the same
// quantization as the PPM writer
func ToRGBA(frame *renderer.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			c := frame.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(quantize(c.X)),
				G: uint8(quantize(c.Y)),
				B: uint8(quantize(c.Z)),
				A: 255,
			})
		}
	}
	return img
}

// WritePNG encodes frame as a PNG image
func WritePNG(w io.Writer, frame *renderer.Frame) error {
	if err := png.Encode(w, ToRGBA(frame)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
