package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/atlaspack/internal/model"
)

// WriteManifest persists an atlas manifest to the given path as JSON.
// It creates any missing parent directories automatically.
func WriteManifest(path string, atlas model.Atlas) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(atlas, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads an atlas manifest from the given path.
func LoadManifest(path string) (model.Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Atlas{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	var atlas model.Atlas
	if err := json.Unmarshal(data, &atlas); err != nil {
		return model.Atlas{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if atlas.ID == "" {
		return model.Atlas{}, fmt.Errorf("invalid manifest: missing id field")
	}
	// Ensure slices are never nil
	if atlas.Pages == nil {
		atlas.Pages = []model.PageInfo{}
	}
	if atlas.Sprites == nil {
		atlas.Sprites = []model.Entry{}
	}
	return atlas, nil
}
