package microioc

import "log/slog"

type Option func(*containerConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// WithResolveObserver is called after every top-level resolution and after
// each binding visited by ResolveAll.
func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithRegisterObserver(hook RegisterHook) Option {
	return func(cfg *containerConfig) {
		cfg.onRegister = append(cfg.onRegister, hook)
	}
}

// WithDisposeObserver is called for each owned instance released by Dispose,
// with the error its release returned, if any.
func WithDisposeObserver(hook DisposeHook) Option {
	return func(cfg *containerConfig) {
		cfg.onDispose = append(cfg.onDispose, hook)
	}
}
