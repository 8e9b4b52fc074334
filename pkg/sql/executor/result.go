// pkg/sql/executor/result.go
package executor

import "minisql/pkg/types"

// Result is the outcome of one executed statement: either a row set
// (Columns/Rows populated) or a DML/DDL acknowledgement (AffectedRows or
// Message populated).
type Result struct {
	Columns      []string
	Rows         []map[string]types.Value
	AffectedRows int
	Message      string
}
