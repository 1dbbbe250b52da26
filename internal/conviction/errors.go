package conviction

import (
	"fmt"

	"signalcli/pkg/contracts/domain"
)

// CardinalityError reports a duplicate key in a join side that declared 1:1
// cardinality. The pipeline fails on it immediately rather than fanning out
// rows.
type CardinalityError struct {
	Table string
	Key   string
}

// Error implements the error interface
func (e *CardinalityError) Error() string {
	return fmt.Sprintf("duplicate key %s in %s where 1:1 join was declared", e.Key, e.Table)
}

// securityMonthKey formats a (security_id, month) join key for error reporting.
func securityMonthKey(securityID int64, month domain.Month) string {
	return fmt.Sprintf("(permno=%d, month=%s)", securityID, month)
}

// companyMonthKey formats a (company_id, month) join key for error reporting.
func companyMonthKey(companyID int64, month domain.Month) string {
	return fmt.Sprintf("(gvkey=%d, month=%s)", companyID, month)
}
