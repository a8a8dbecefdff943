package modelbind

// Config holds mapper limits. It is loadable from the environment with
// config.Load.
type Config struct {
	// MaxDepth bounds value nesting; 0 disables the limit.
	MaxDepth int `env:"MODELBIND_MAX_DEPTH" envDefault:"32"`
	// MaxFields bounds the number of submitted fields request adapters accept.
	MaxFields int `env:"MODELBIND_MAX_FIELDS" envDefault:"1000"`
}

// DefaultConfig returns the limits used by New.
func DefaultConfig() Config {
	return Config{
		MaxDepth:  32,
		MaxFields: 1000,
	}
}
