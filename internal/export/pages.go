// Package export provides functionality for writing atlas packing results
// to page images, manifests, and report formats.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/piwi3910/atlaspack/internal/model"
)

// WritePages encodes each page of a pack result as a PNG named
// <name>_<index>.png in dir, creating the directory if needed. The returned
// page infos reference the written files by base name.
func WritePages(dir, name string, result model.PackResult) ([]model.PageInfo, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var pages []model.PageInfo
	for i, page := range result.Pages {
		file := fmt.Sprintf("%s_%d.png", name, i)
		if err := writePNG(filepath.Join(dir, file), page.ToImage()); err != nil {
			return nil, err
		}
		pages = append(pages, model.PageInfo{
			File:   file,
			Width:  page.Width(),
			Height: page.Height(),
		})
	}
	return pages, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
