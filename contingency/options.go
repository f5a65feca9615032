// SPDX-License-Identifier: MIT

package contingency

import (
	"log/slog"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/susceptance"
)

// Option configures NewScreener.
type Option func(*options)

type options struct {
	logger *slog.Logger
	build  []susceptance.Option
	lu     []matrix.LUOption
}

// WithLogger routes Screener logs to l. A nil l keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSusceptanceOptions passes options to every susceptance.Build call,
// including fallback refactorizations.
func WithSusceptanceOptions(opts ...susceptance.Option) Option {
	return func(o *options) { o.build = append(o.build, opts...) }
}

// WithLUOptions passes pivot tolerances to every factorization.
func WithLUOptions(opts ...matrix.LUOption) Option {
	return func(o *options) { o.lu = append(o.lu, opts...) }
}

func gatherOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
