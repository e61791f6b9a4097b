package seek

import "log/slog"

// Option configures an Executor.
type Option func(*Executor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(x *Executor) error {
		if logger == nil {
			logger = slog.Default()
		}
		x.logger = logger
		return nil
	}
}

// WithMonitor installs a monitor that observes every query.
func WithMonitor(monitor QueryMonitor) Option {
	return func(x *Executor) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		x.monitor = monitor
		return nil
	}
}

// WithVerification sets how internal-consistency faults are handled.
// Default is DefaultVerification().
func WithVerification(v Verification) Option {
	return func(x *Executor) error {
		if v != VerifyStrict && v != VerifyLenient {
			return ErrUnknownVerification
		}
		x.verification = v
		return nil
	}
}
