package config

// Config represents the complete symgrep configuration.
// It can be loaded from .symgrep/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Query   QueryConfig   `yaml:"query" mapstructure:"query"`
}

// PathsConfig defines which files to index and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for files to index
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// ScanConfig tunes the indexing pass.
type ScanConfig struct {
	Workers      int               `yaml:"workers" mapstructure:"workers"`               // scan worker count; 0 = NumCPU
	MaxFileSize  int64             `yaml:"max_file_size" mapstructure:"max_file_size"`   // skip files larger than this (bytes)
	UseGitignore bool              `yaml:"use_gitignore" mapstructure:"use_gitignore"`   // honor .gitignore at the root
	Languages    map[string]string `yaml:"languages" mapstructure:"languages"`           // extension → language overrides
}

// StorageConfig selects and locates the index backend.
type StorageConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"`     // "file" or "sqlite"
	IndexDir string `yaml:"index_dir" mapstructure:"index_dir"` // override default .symgrep
}

// QueryConfig sets search defaults the CLI applies when flags are absent.
type QueryConfig struct {
	Mode  string `yaml:"mode" mapstructure:"mode"`   // default match mode
	Limit int    `yaml:"limit" mapstructure:"limit"` // default result cap; 0 = unlimited
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: nil, // empty means every recognized extension
			Ignore:  nil,
		},
		Scan: ScanConfig{
			Workers:      0,
			MaxFileSize:  4 << 20,
			UseGitignore: true,
			Languages:    nil,
		},
		Storage: StorageConfig{
			Backend:  "file",
			IndexDir: ".symgrep",
		},
		Query: QueryConfig{
			Mode:  "substring",
			Limit: 0,
		},
	}
}
