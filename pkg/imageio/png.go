package imageio

import (
	"fmt"
	"image/png"
	"io"

	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

// WritePNG writes the framebuffer as an 8-bit PNG
func WritePNG(w io.Writer, fb *renderer.Framebuffer) error {
	if err := checkFramebuffer(fb); err != nil {
		return err
	}
	if err := png.Encode(w, ToImage(fb)); err != nil {
		return fmt.Errorf("imageio: encoding png: %w", err)
	}
	return nil
}
