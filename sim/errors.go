package sim

import "errors"

// ErrInvariantViolation marks a broken occupancy contract: acquiring an
// occupied resource, releasing a free one, or a holding consumer whose
// resource does not point back at it. The offending step is aborted.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrConfiguration marks an invalid Config. The simulation is not built.
var ErrConfiguration = errors.New("invalid configuration")
