package imageio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

// WritePPM writes the framebuffer as a plain-text P3 PPM: a three line header
// followed by one "r g b" line per pixel, top row first
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	if err := checkFramebuffer(fb); err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(out, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("imageio: writing ppm header: %w", err)
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := EncodeColor(fb.At(x, y))
			if _, err := fmt.Fprintf(out, "%d %d %d\n", r, g, b); err != nil {
				return fmt.Errorf("imageio: writing ppm pixel (%d,%d): %w", x, y, err)
			}
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("imageio: flushing ppm: %w", err)
	}
	return nil
}
