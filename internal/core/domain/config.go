package domain

import "time"

// ResponseFormat selects how the daemon encodes response payloads.
type ResponseFormat string

const (
	// FormatRaw sends the filtered assembly text as is.
	FormatRaw ResponseFormat = "raw"
	// FormatJSON wraps the assembly in a {"filepath","asm"} object.
	FormatJSON ResponseFormat = "json"
)

const (
	// DefaultPollInterval bounds how long the event loop blocks on a read.
	DefaultPollInterval = 250 * time.Millisecond
	// DefaultMaxRequestBytes bounds a single request line.
	DefaultMaxRequestBytes = 8192
	// DefaultMaxBufferBytes bounds the filtered assembly of one file.
	DefaultMaxBufferBytes = 256 << 20
)

// Config holds the resolved project configuration.
type Config struct {
	Format          ResponseFormat
	PollInterval    time.Duration
	IdleTimeout     time.Duration
	MaxRequestBytes int
	MaxBufferBytes  int
	Demangle        bool
	ExtraFlags      []string
	Generator       []string
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Format:          FormatRaw,
		PollInterval:    DefaultPollInterval,
		MaxRequestBytes: DefaultMaxRequestBytes,
		MaxBufferBytes:  DefaultMaxBufferBytes,
		Demangle:        true,
	}
}

// ParseResponseFormat validates a format name.
func ParseResponseFormat(s string) (ResponseFormat, error) {
	switch ResponseFormat(s) {
	case FormatRaw, FormatJSON:
		return ResponseFormat(s), nil
	default:
		return "", ErrInvalidFormat
	}
}
