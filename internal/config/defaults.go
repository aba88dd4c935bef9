package config

// DefaultExtensions are the file extensions treated as playable audio.
var DefaultExtensions = []string{".mp3", ".wav", ".flac", ".ogg"}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	volume := 100
	return &Config{
		Library: LibraryConfig{
			Extensions: DefaultExtensions,
		},
		Defaults: DefaultsConfig{
			Volume:  &volume,
			Shuffle: false,
			Repeat:  "off",
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	def := Default()

	if len(c.Library.Extensions) == 0 {
		c.Library.Extensions = def.Library.Extensions
	}
	if c.Defaults.Volume == nil {
		c.Defaults.Volume = def.Defaults.Volume
	}
	if c.Defaults.Repeat == "" {
		c.Defaults.Repeat = def.Defaults.Repeat
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = def.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = def.TUI.RefreshInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
