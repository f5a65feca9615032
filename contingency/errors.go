// SPDX-License-Identifier: MIT

package contingency

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyContingency indicates a contingency without outaged branches.
	ErrEmptyContingency = errors.New("contingency: no outaged branches")

	// ErrOrderExceeded indicates a contingency deeper than Config.MaxOrder.
	ErrOrderExceeded = errors.New("contingency: order exceeds configured maximum")

	// ErrNilTopology indicates a nil *network.Topology.
	ErrNilTopology = errors.New("contingency: nil topology")

	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("contingency: invalid config")
)

// ConfigError reports one rejected configuration field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("contingency: config field %q: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
