package dependor

import (
	"github.com/junioryono/dependor/depevent"
	"go.uber.org/zap"
)

// Option configures a host, resolver or instantiator.
type Option interface {
	apply(*options)
}

// options holds the resolved configuration.
type options struct {
	logger depevent.Logger
	chain  *Chain
	eager  bool
}

// optionFunc adapts a function to Option.
type optionFunc func(*options)

func (f optionFunc) apply(opts *options) {
	f(opts)
}

func newOptions(opts []Option) options {
	o := options{logger: depevent.NopLogger}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}
	return o
}

// WithLogger sends resolution events to logger. A nil logger disables
// event logging.
func WithLogger(logger depevent.Logger) Option {
	return optionFunc(func(opts *options) {
		if logger == nil {
			logger = depevent.NopLogger
		}
		opts.logger = logger
	})
}

// WithZap sends resolution events to a Zap logger.
func WithZap(log *zap.Logger) Option {
	if log == nil {
		return WithLogger(nil)
	}
	return WithLogger(&depevent.ZapLogger{Logger: log})
}

// WithChain makes a host resolve through chain instead of the chain
// declared for its type. Only Attach honors it.
func WithChain(chain *Chain) Option {
	return optionFunc(func(opts *options) {
		opts.chain = chain
	})
}

// Eager builds the host's auto resolver, and freezes its chain, during
// Attach instead of on first use. Only Attach honors it.
func Eager() Option {
	return optionFunc(func(opts *options) {
		opts.eager = true
	})
}
