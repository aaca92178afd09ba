package server

import (
	"time"

	opentracing "github.com/opentracing/opentracing-go"
)

// Config for the HTTP server.
type Config struct {
	// Address the server listens on.
	Address string `mapstructure:"address" yaml:"address"`
	// DataDir is the directory holding persisted datasets. Persisted
	// datasets are disabled when it is empty.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// ShutdownTimeout is the time given to in-flight requests on shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// MaxBodySize is the maximum size in bytes of a request body.
	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size"`
	// LogLevel is the logrus level name.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// LogFormat is either text or json.
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	// SeedFile is an optional YAML file with datasets to load on startup.
	SeedFile string `mapstructure:"seed_file" yaml:"seed_file"`
	// Metrics enables the /metrics endpoint.
	Metrics bool `mapstructure:"metrics" yaml:"metrics"`
	// Tracer used for queries. The global tracer is used when nil.
	Tracer opentracing.Tracer `mapstructure:"-" yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Address:         "127.0.0.1:8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodySize:     32 << 20,
		LogLevel:        "info",
		LogFormat:       "text",
		Metrics:         true,
	}
}

func (c Config) tracer() opentracing.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}
	return opentracing.GlobalTracer()
}
