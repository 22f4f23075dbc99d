package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath sets the path of the config file on disk. When set, the
// file is watched at runtime and the log level is reloaded on change.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}
