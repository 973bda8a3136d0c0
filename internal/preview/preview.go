// Package preview loads photos from disk and scales them to fit the
// popup's preview box.
package preview

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
)

// placeholderGray fills the stand-in image shown when a photo cannot
// be decoded.
var placeholderGray = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// Load decodes the image at path and scales it down to fit within
// maxWidth x maxHeight, preserving aspect ratio. Images already inside
// the box are returned at their native size.
func Load(path string, maxWidth, maxHeight int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo %q: %w", path, err)
	}

	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, resize.Lanczos3), nil
}

// Placeholder returns a flat dark image of the given size, used in
// place of a photo that could not be loaded.
func Placeholder(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, placeholderGray)
		}
	}
	return img
}
