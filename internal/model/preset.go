package model

import (
	"time"

	"github.com/google/uuid"
)

// PackPreset represents a reusable, named packing configuration.
type PackPreset struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	Settings    PackSettings `json:"settings"`
}

// NewPackPreset creates a preset from the given settings.
func NewPackPreset(name, description string, settings PackSettings) PackPreset {
	now := time.Now().UTC().Format(time.RFC3339)
	return PackPreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Settings:    settings,
	}
}

// BuiltinPresets are the presets shipped with the application. User presets
// are stored separately and may shadow these by name.
var BuiltinPresets = []PackPreset{
	{
		ID:          "pixel-art",
		Name:        "Pixel Art",
		Description: "Tight packing for point-sampled sprites, no filtering gutters",
		Settings: PackSettings{
			Trim:              true,
			MaxSize:           2048,
			Padding:           1,
			CombineDuplicates: true,
		},
	},
	{
		ID:          "filtered",
		Name:        "Filtered",
		Description: "Bilinear-safe packing with duplicated edge pixels",
		Settings: PackSettings{
			Trim:           true,
			MaxSize:        4096,
			Padding:        2,
			DuplicateEdges: true,
		},
	},
	{
		ID:          "legacy-gpu",
		Name:        "Legacy GPU",
		Description: "Power-of-two pages for hardware without NPOT texture support",
		Settings: PackSettings{
			Trim:       true,
			MaxSize:    2048,
			Padding:    1,
			PowerOfTwo: true,
		},
	},
}

// PresetStore holds a collection of user presets.
type PresetStore struct {
	Presets []PackPreset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []PackPreset{},
	}
}

// Add adds a preset to the store.
func (ps *PresetStore) Add(p PackPreset) {
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *PackPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *PackPreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in store order.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}

// ResolvePreset looks a preset up by name, checking user presets first and
// falling back to the builtin set. Returns nil if no preset matches.
func ResolvePreset(store PresetStore, name string) *PackPreset {
	if p := store.FindByName(name); p != nil {
		return p
	}
	for i := range BuiltinPresets {
		if BuiltinPresets[i].Name == name || BuiltinPresets[i].ID == name {
			return &BuiltinPresets[i]
		}
	}
	return nil
}
