// SPDX-License-Identifier: MIT

package config

import "errors"

// ErrInvalidConfig indicates a configuration value out of range or shaped
// inconsistently with the covariate description.
var ErrInvalidConfig = errors.New("config: invalid configuration")
