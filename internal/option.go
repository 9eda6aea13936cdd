package internal

// Option is a functional option applied by setup when building the jera
// runtime.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig overrides the default configuration, typically with one loaded
// from a YAML file by the CLI.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
