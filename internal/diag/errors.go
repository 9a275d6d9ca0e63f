package diag

import "errors"

// ErrDiagnosticsEmitted signals that a run reported at least one error.
var ErrDiagnosticsEmitted = errors.New("errors emitted")
