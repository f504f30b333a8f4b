package config

// Config holds the settings shared by the fst tools.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Render  RenderConfig  `yaml:"render"`
	Codegen CodegenConfig `yaml:"codegen"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// RenderConfig sizes SVG and PNG diagrams.
type RenderConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Padding     int    `yaml:"padding"`
	StateRadius int    `yaml:"state_radius"`
	FontSize    int    `yaml:"font_size"`
	Title       string `yaml:"title,omitempty"`
}

// CodegenConfig controls generated Go source.
type CodegenConfig struct {
	Package string `yaml:"package"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Render: RenderConfig{
			Width:       800,
			Height:      600,
			Padding:     50,
			StateRadius: 30,
			FontSize:    14,
		},
		Codegen: CodegenConfig{
			Package: "main",
		},
	}
}
