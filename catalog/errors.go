package catalog

import "errors"

// ErrNotFound is returned by CompareByName when no in-stock entry matches
// the product name. A normal outcome, distinct from storage failures.
var ErrNotFound = errors.New("catalog: product not found")
