package model

// MaxRecentAtlases caps the recent atlas list stored in the app config.
const MaxRecentAtlases = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default packing settings applied to new runs
	DefaultMaxSize           int  `json:"default_max_size"`
	DefaultPadding           int  `json:"default_padding"`
	DefaultTrim              bool `json:"default_trim"`
	DefaultPowerOfTwo        bool `json:"default_power_of_two"`
	DefaultCombineDuplicates bool `json:"default_combine_duplicates"`
	DefaultDuplicateEdges    bool `json:"default_duplicate_edges"`

	// Application preferences
	RecentAtlases []string `json:"recent_atlases"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMaxSize:           defaults.MaxSize,
		DefaultPadding:           defaults.Padding,
		DefaultTrim:              defaults.Trim,
		DefaultPowerOfTwo:        defaults.PowerOfTwo,
		DefaultCombineDuplicates: defaults.CombineDuplicates,
		DefaultDuplicateEdges:    defaults.DuplicateEdges,
		RecentAtlases:            []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// PackSettings struct. This is used when starting a new run so it inherits
// the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.MaxSize = c.DefaultMaxSize
	s.Padding = c.DefaultPadding
	s.Trim = c.DefaultTrim
	s.PowerOfTwo = c.DefaultPowerOfTwo
	s.CombineDuplicates = c.DefaultCombineDuplicates
	s.DuplicateEdges = c.DefaultDuplicateEdges
}

// AddRecentAtlas inserts a manifest path at the front of the recent list,
// dropping earlier occurrences and anything beyond MaxRecentAtlases.
func (c *AppConfig) AddRecentAtlas(path string) {
	recent := []string{path}
	for _, p := range c.RecentAtlases {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > MaxRecentAtlases {
		recent = recent[:MaxRecentAtlases]
	}
	c.RecentAtlases = recent
}
