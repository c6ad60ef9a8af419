package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

var (
	// ErrEmptyImage is returned when a framebuffer has no pixels to write
	ErrEmptyImage = errors.New("imageio: empty framebuffer")
	// ErrUnknownFormat is returned for output names with an unsupported extension
	ErrUnknownFormat = errors.New("imageio: unknown image format")
)

// Format is an output image encoding
type Format int

const (
	FormatPPM Format = iota
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	default:
		return "ppm"
	}
}

// FormatFromPath picks the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	default:
		return FormatPPM, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// channelRange clamps gamma-encoded channels just below 1 so 256*x never reaches 256
var channelRange = core.NewInterval(0.000, 0.999)

// LinearToGamma applies the gamma-2 transfer: sqrt for positive values, 0 otherwise
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// EncodeChannel converts a linear radiance channel to a byte value in [0, 255]
func EncodeChannel(linear float64) int {
	gamma := LinearToGamma(linear)
	if math.IsNaN(gamma) {
		gamma = 0
	}
	return int(256 * channelRange.Clamp(gamma))
}

// EncodeColor converts a linear color to 8-bit RGB
func EncodeColor(c core.Vec3) (r, g, b int) {
	return EncodeChannel(c.X), EncodeChannel(c.Y), EncodeChannel(c.Z)
}

// Write encodes the framebuffer in the given format
func Write(w io.Writer, format Format, fb *renderer.Framebuffer) error {
	switch format {
	case FormatPNG:
		return WritePNG(w, fb)
	default:
		return WritePPM(w, fb)
	}
}

// SaveFile writes the framebuffer to path, creating parent directories as needed.
// The format follows the file extension.
func SaveFile(path string, fb *renderer.Framebuffer) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("imageio: creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("imageio: closing %s: %w", path, closeErr)
		}
	}()

	return Write(file, format, fb)
}

// ToImage converts the framebuffer to an 8-bit RGBA image
func ToImage(fb *renderer.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := EncodeColor(fb.At(x, y))
			img.SetRGBA(x, y, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return img
}

func checkFramebuffer(fb *renderer.Framebuffer) error {
	if fb == nil || fb.Width < 1 || fb.Height < 1 || len(fb.Pixels) != fb.Width*fb.Height {
		return ErrEmptyImage
	}
	return nil
}
