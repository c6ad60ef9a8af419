package imageio

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

func TestEncodeChannel(t *testing.T) {
	tests := []struct {
		name     string
		linear   float64
		expected int
	}{
		{"black", 0, 0},
		{"negative", -0.5, 0},
		{"NaN", math.NaN(), 0},
		{"quarter is half after gamma", 0.25, 128},
		{"white", 1.0, 255},
		{"overexposed", 4.0, 255},
		{"just below white", 0.998, 255},
		{"dim", 0.01, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeChannel(tt.linear); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func testFramebuffer() *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0))
	fb.Set(1, 0, core.NewVec3(0, 1, 0))
	fb.Set(0, 1, core.NewVec3(0, 0, 1))
	fb.Set(1, 1, core.NewVec3(0.25, 0.25, 0.25))
	return fb
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testFramebuffer()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "P3\n2 2\n255\n" +
		"255 0 0\n" +
		"0 255 0\n" +
		"0 0 255\n" +
		"128 128 128\n"
	if buf.String() != expected {
		t.Errorf("Expected\n%q\ngot\n%q", expected, buf.String())
	}
}

func TestWritePPM_HeaderForWideImage(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, renderer.NewFramebuffer(16, 9)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != "P3" || lines[1] != "16 9" || lines[2] != "255" {
		t.Errorf("Unexpected header %q", lines[:3])
	}
	if len(lines) != 3+16*9 {
		t.Errorf("Expected %d lines, got %d", 3+16*9, len(lines))
	}
}

func TestWrite_EmptyFramebuffer(t *testing.T) {
	for _, format := range []Format{FormatPPM, FormatPNG} {
		var buf bytes.Buffer
		err := Write(&buf, format, &renderer.Framebuffer{})
		if !errors.Is(err, ErrEmptyImage) {
			t.Errorf("%s: expected ErrEmptyImage, got %v", format, err)
		}
	}
}

func TestWritePNG_RoundTripPixels(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testFramebuffer()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Could not decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %v", img.Bounds())
	}

	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 {
		t.Errorf("Expected gray 128, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(0, 0).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("Expected red top-left pixel, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"out.ppm", FormatPPM, false},
		{"render/out.PNG", FormatPNG, false},
		{"image.jpg", FormatPPM, true},
		{"noext", FormatPPM, true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: unexpected error state %v", tt.path, err)
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("%s: expected ErrUnknownFormat, got %v", tt.path, err)
		}
		if got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.path, tt.expected, got)
		}
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()

	ppmPath := filepath.Join(dir, "nested", "out.ppm")
	if err := SaveFile(ppmPath, testFramebuffer()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	data, err := os.ReadFile(ppmPath)
	if err != nil {
		t.Fatalf("Could not read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "P3\n2 2\n255\n") {
		t.Errorf("Unexpected PPM header: %q", string(data[:12]))
	}

	pngPath := filepath.Join(dir, "out.png")
	if err := SaveFile(pngPath, testFramebuffer()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	file, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("Could not open output: %v", err)
	}
	defer file.Close()
	if _, err := png.Decode(file); err != nil {
		t.Errorf("Saved PNG does not decode: %v", err)
	}

	if err := SaveFile(filepath.Join(dir, "out.gif"), testFramebuffer()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}
