package config

import "log/slog"

type Option func(*options)

type options struct {
	envFiles []string
	env      map[string]string
	expand   bool
	logger   *slog.Logger
}

func defaultOptions() *options {
	return &options{
		expand: true,
		logger: slog.Default(),
	}
}

// WithEnvFiles reads variables for ${VAR} expansion from dotenv files. The
// files are read, never loaded into the process environment. Missing files
// are skipped.
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.envFiles = append(o.envFiles, files...)
	}
}

// WithEnv supplies variables that take precedence over env files and the
// process environment.
func WithEnv(env map[string]string) Option {
	return func(o *options) {
		if o.env == nil {
			o.env = make(map[string]string, len(env))
		}
		for k, v := range env {
			o.env[k] = v
		}
	}
}

func WithoutExpansion() Option {
	return func(o *options) {
		o.expand = false
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
