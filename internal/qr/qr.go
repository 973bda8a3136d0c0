package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/ashokshau/qrcode"
	"github.com/nfnt/resize"
)

const (
	// driveURLTemplate points at the shared folder, not an individual
	// file. No cloud API is consulted; guests locate their photo inside
	// the folder themselves.
	driveURLTemplate = "https://drive.google.com/drive/folders/%s"

	// moduleScale is the pixel size of a single QR module before the
	// final resize.
	moduleScale = 10
)

// FolderURL builds the payload URL for the shared drive folder.
func FolderURL(driveFolderID string) string {
	return fmt.Sprintf(driveURLTemplate, driveFolderID)
}

// Generate encodes payload into a square QR bitmap of size x size
// pixels. Level H error correction keeps the code scannable on glossy
// venue screens.
func Generate(payload string, size int) (image.Image, error) {
	if payload == "" {
		return nil, fmt.Errorf("payload cannot be empty")
	}
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", size)
	}

	code, err := qrcode.NewQRCode(payload, qrcode.LevelH)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %q: %w", payload, err)
	}

	var buf bytes.Buffer
	if err := code.WritePNG(&buf, moduleScale); err != nil {
		return nil, fmt.Errorf("failed to render QR bitmap: %w", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR bitmap: %w", err)
	}

	return resize.Resize(uint(size), uint(size), img, resize.Lanczos3), nil
}
