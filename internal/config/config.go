package config

// GridGeometry describes the device's home-screen geometry as screen-height
// fractions measured from the top. The defaults match a 6x4 grid phone with
// a four-icon dock; every value can be overridden from the config file.
type GridGeometry struct {
	Rows    int `mapstructure:"rows"`
	Columns int `mapstructure:"columns"`

	// AppGridTopY .. AppGridBottomY is the vertical band icon captions of
	// the paged grid live in; DockTopY .. DockBottomY is the dock band.
	// The gap between AppGridBottomY and DockTopY is a dead zone (page
	// dots) and never maps to a slot.
	AppGridTopY    float64 `mapstructure:"app_grid_top_y"`
	AppGridBottomY float64 `mapstructure:"app_grid_bottom_y"`
	DockTopY       float64 `mapstructure:"dock_top_y"`
	DockBottomY    float64 `mapstructure:"dock_bottom_y"`

	// TopEdgeTolerance is how far above the grid top a caption may sit and
	// still clamp into row 0 during admissibility's dead-zone math;
	// TopOverhang is the hard cutoff above which candidates are dropped
	// from slot assignment entirely.
	TopEdgeTolerance float64 `mapstructure:"top_edge_tolerance"`
	TopOverhang      float64 `mapstructure:"top_overhang"`
}

// DefaultGridGeometry returns the published default margins. These values
// are load-bearing for slot arithmetic; tests pin them with fixtures.
func DefaultGridGeometry() GridGeometry {
	return GridGeometry{
		Rows:             6,
		Columns:          4,
		AppGridTopY:      0.15,
		AppGridBottomY:   0.80,
		DockTopY:         0.84,
		DockBottomY:      0.98,
		TopEdgeTolerance: 0.02,
		TopOverhang:      0.05,
	}
}

// FilterConfig holds the text-filtering vocabulary for both screenshot
// kinds: terms that are never app labels, substrings that mark system chrome,
// and the calendar/weather vocabulary that signals widget content.
type FilterConfig struct {
	// StopTerms are exact (case-insensitive) matches rejected on home
	// screens.
	StopTerms []string `mapstructure:"stop_terms"`
	// IgnoredSubstrings reject any label containing one of them.
	IgnoredSubstrings []string `mapstructure:"ignored_substrings"`
	// UsageStopTerms are headers and chrome on the usage-summary screen.
	UsageStopTerms []string `mapstructure:"usage_stop_terms"`
	// WidgetVocabulary marks calendar/weather widget text on home screens.
	WidgetVocabulary []string `mapstructure:"widget_vocabulary"`
}

// DefaultFilterConfig returns the built-in filtering vocabulary.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		StopTerms: []string{
			"search", "done", "today", "battery", "edit", "cancel",
			"delete", "remove", "loading", "swipe", "settings icon",
		},
		IgnoredSubstrings: []string{
			"no older notifications", "notification center",
			"press home to open",
		},
		UsageStopTerms: []string{
			"screen time", "most used", "show categories", "notifications",
			"pickups", "first pickup", "first used after pickup",
			"last 7 days", "daily average", "see all activity",
			"see all app & website activity", "updated today", "today",
			"week", "day", "limits", "total screen time",
		},
		WidgetVocabulary: []string{
			"calendar", "weather", "sunny", "cloudy", "rain", "snow",
			"forecast", "monday", "tuesday", "wednesday", "thursday",
			"friday", "saturday", "sunday", "no events", "up next",
			"reminders due",
		},
	}
}

// MatchConfig holds the fuzzy-match acceptance thresholds.
type MatchConfig struct {
	// MinScore gates generic best-match lookups.
	MinScore float64 `mapstructure:"min_score"`
	// KnownAppMinScore gates canonicalization against the known-app
	// vocabulary; it is deliberately stricter so unrecognized labels are
	// never silently renamed.
	KnownAppMinScore float64 `mapstructure:"known_app_min_score"`
}

// DefaultMatchConfig returns the default thresholds.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		MinScore:         0.74,
		KnownAppMinScore: 0.87,
	}
}

// Config is the full application configuration tree as decoded by viper.
type Config struct {
	Grid   GridGeometry `mapstructure:"grid"`
	Filter FilterConfig `mapstructure:"filter"`
	Match  MatchConfig  `mapstructure:"match"`
	// DatabasePath is where the SQLite store lives; empty means the
	// platform default under the user config dir.
	DatabasePath string `mapstructure:"database_path"`
}

// Default returns the complete default configuration.
func Default() Config {
	return Config{
		Grid:   DefaultGridGeometry(),
		Filter: DefaultFilterConfig(),
		Match:  DefaultMatchConfig(),
	}
}
