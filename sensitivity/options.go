// SPDX-License-Identifier: MIT

package sensitivity

import "runtime"

const panicWorkersInvalid = "sensitivity: WithWorkers: n must be >= 0"

// Option configures ComputePTDF.
type Option func(*options)

type options struct {
	monitored []string // nil: every branch
	workers   int
}

// WithMonitoredBranches restricts the PTDF to the given branches (in the given
// order) and switches to terminal-bus solves. An empty list is rejected by
// ComputePTDF; it never means "every branch".
func WithMonitoredBranches(ids ...string) Option {
	return func(o *options) {
		o.monitored = make([]string, len(ids))
		copy(o.monitored, ids)
	}
}

// WithWorkers bounds the number of concurrent column solves.
// 0 means runtime.GOMAXPROCS(0). Panics on negative n (programmer error).
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *options) { o.workers = n }
}

func gatherOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers == 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	return o
}
