// SPDX-License-Identifier: MIT

package sensitivity

import (
	"errors"

	"github.com/katalvlaran/gridsens/network"
)

var (
	// ErrUnknownBranch is network.ErrUnknownBranch; both match with errors.Is.
	ErrUnknownBranch = network.ErrUnknownBranch

	// ErrUnknownBus is network.ErrUnknownBus; both match with errors.Is.
	ErrUnknownBus = network.ErrUnknownBus

	// ErrUndefinedFactor indicates an LODF entry whose outage islands the network.
	ErrUndefinedFactor = errors.New("sensitivity: undefined distribution factor")

	// ErrIncompletePTDF indicates a PTDF without rows for every branch.
	ErrIncompletePTDF = errors.New("sensitivity: PTDF does not cover every branch")

	// ErrSystemMismatch indicates a PTDF paired with a susceptance matrix it
	// was not computed from.
	ErrSystemMismatch = errors.New("sensitivity: PTDF and system differ")

	// ErrNilInput indicates a nil factorization, PTDF or system.
	ErrNilInput = errors.New("sensitivity: nil input")
)
