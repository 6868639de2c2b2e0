package config

// Configfile represents the structure of the .vimasm.yaml configuration file.
// Pointer fields distinguish an absent key from its zero value.
type Configfile struct {
	Format          string   `yaml:"format"`
	PollInterval    string   `yaml:"pollInterval"`
	IdleTimeout     string   `yaml:"idleTimeout"`
	MaxRequestBytes *int     `yaml:"maxRequestBytes"`
	MaxBufferBytes  *int     `yaml:"maxBufferBytes"`
	Demangle        *bool    `yaml:"demangle"`
	ExtraFlags      []string `yaml:"extraFlags"`
	Generator       []string `yaml:"generator"`
}
