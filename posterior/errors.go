// SPDX-License-Identifier: MIT

package posterior

import "errors"

// ErrEmptyPosterior indicates that no draws are retained, e.g. because the
// burn-in consumes every sample.
var ErrEmptyPosterior = errors.New("posterior: no retained draws")
