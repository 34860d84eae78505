package collaboration

// Config holds collaboration domain configuration.
type Config struct {
	// CollabIDPrefix is the leading segment of tracking codes, e.g. "COL".
	CollabIDPrefix string
	// CollabIDRandomLength is the length of the random suffix.
	CollabIDRandomLength int
}

// DefaultConfig returns default collaboration configuration.
func DefaultConfig() *Config {
	return &Config{
		CollabIDPrefix:       "COL",
		CollabIDRandomLength: 5,
	}
}
