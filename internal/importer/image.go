package importer

import (
	"fmt"
	"image/png"
	"os"

	"github.com/piwi3910/atlaspack/internal/pixel"
)

// LoadImage reads a PNG file into a pixel buffer.
func LoadImage(path string) (*pixel.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return pixel.FromImage(img), nil
}
