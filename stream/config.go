package stream

import "github.com/kbukum/iterflow/config"

// Config supplies process-wide defaults for every BufferedIterator-derived
// stream constructed without explicit MaxBufferSize/AutoStart, loaded via
// the teacher's config package (viper + godotenv), so deployments can tune
// buffering without code changes.
type Config struct {
	MaxBufferSize int  `yaml:"max_buffer_size" mapstructure:"max_buffer_size"`
	AutoStart     bool `yaml:"auto_start" mapstructure:"auto_start"`

	Logging Config_logging `yaml:"logging" mapstructure:"logging"`
}

// Config_logging mirrors logging.Config's shape for embedding in a single
// loaded document; kept separate from the logging package to avoid a
// stream->logging config coupling beyond what LoadDefaults needs.
type Config_logging struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ApplyDefaults sets MaxBufferSize to DefaultMaxBufferSize when it is
// unset. AutoStart is left as loaded: a document without auto_start leaves
// it false.
func (c *Config) ApplyDefaults() {
	if c.MaxBufferSize <= 0 {
		c.MaxBufferSize = DefaultMaxBufferSize
	}
}

var defaultConfig = &Config{MaxBufferSize: DefaultMaxBufferSize, AutoStart: true}

// LoadDefaults loads process-wide stream defaults for serviceName via
// config.LoadConfig (config.yml + .env search, environment overrides) and
// installs them as the package defaults used by DefaultBufferedOptions.
func LoadDefaults(serviceName string, opts ...config.LoaderOption) error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	defaultConfig = &cfg
	return nil
}

// DefaultBufferedOptions returns BufferedOptions seeded from the current
// process-wide defaults (see LoadDefaults), for callers that want the
// configured buffering behavior without specifying it at every call site.
func DefaultBufferedOptions() BufferedOptions {
	return BufferedOptions{
		MaxBufferSize: defaultConfig.MaxBufferSize,
		AutoStart:     defaultConfig.AutoStart,
	}
}
