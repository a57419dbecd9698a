package catalog

import "errors"

// ErrPersist wraps failures writing the catalog snapshot. The in-memory
// catalog is left as it was before the failed operation.
var ErrPersist = errors.New("persist catalog")
