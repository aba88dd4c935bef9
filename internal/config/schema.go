package config

// Config is the root configuration structure.
type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Defaults DefaultsConfig `toml:"defaults"`
	TUI      TUIConfig      `toml:"tui"`
	Log      LogConfig      `toml:"log"`
}

// LibraryConfig holds settings for the track library.
type LibraryConfig struct {
	MusicDir   string   `toml:"music_dir"`
	Watch      bool     `toml:"watch"`
	Extensions []string `toml:"extensions"`
}

// DefaultsConfig holds default playback settings.
type DefaultsConfig struct {
	// Volume is a pointer so an explicit 0 in the file is distinguishable
	// from the key being absent.
	Volume  *int   `toml:"volume"`
	Shuffle bool   `toml:"shuffle"`
	Repeat  string `toml:"repeat"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
