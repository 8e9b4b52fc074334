// pkg/sql/executor/errors.go
package executor

import "errors"

// ErrExecution marks the taxonomy's "execution error" class: unknown
// statement kind, mismatched INSERT column count, unknown column,
// aggregate misuse. Schema errors, type errors and constraint
// violations are returned as-is from pkg/schema and pkg/types so callers
// can errors.As against their concrete types.
var ErrExecution = errors.New("execution error")
