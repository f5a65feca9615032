// SPDX-License-Identifier: MIT

package network

// Option configures NewTopology.
type Option func(*options)

type options struct {
	requireConnected bool
}

// WithRequireConnected makes NewTopology fail with ErrIslanded when the
// in-service branches do not connect every in-service bus.
func WithRequireConnected() Option {
	return func(o *options) { o.requireConnected = true }
}

func gatherOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
