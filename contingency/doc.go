// SPDX-License-Identifier: MIT

// Package contingency drives branch-outage studies on top of the DC kernels.
//
// A Screener factors the base network once and then answers two questions
// per Contingency:
//
//   - Evaluate: exact post-outage flows through composed Woodbury updates,
//     falling back to a fresh factorization of the reduced topology when an
//     update is singular. Outages that split the network are reported as
//     Islanded, never as a batch failure.
//   - Screen: a linear LODF estimate of post-outage flows, compared against
//     branch limits to flag the cases worth an exact evaluation.
//
// Run evaluates a batch over a bounded errgroup. Config is a plain struct
// with mapstructure tags; LoadConfig reads it through viper from YAML, TOML
// or JSON with GRIDSENS_* environment overrides.
//
// The kernels below this package never log; Screener logs through an
// injected *slog.Logger (WithLogger), silent by default.
package contingency
