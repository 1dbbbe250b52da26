// Package panel computes exact-calendar-month lags over entity/month keyed
// record sets. A lag of N for an entity's record at month m is the value that
// same entity carried at month m−N; if no record exists at m−N, the lag is
// NaN. Gaps are never bridged: a missing intervening month makes the lag
// missing, it does not shift the lookup to the nearest earlier record.
package panel

import (
	"math"

	"signalcli/pkg/contracts/domain"
)

// Key identifies one observation in a panel: an entity at a calendar month.
type Key struct {
	Entity int64
	Month  domain.Month
}

// Lag computes lagged copies of one numeric column for every record. The
// records stay untouched; the result maps each requested lag distance to a
// slice aligned with records, holding the entity's value from exactly that
// many months earlier, or NaN where no such record exists.
//
// The accessors make the helper independent of the record type: entityOf and
// monthOf form the panel key, valueOf reads the column being lagged.
// Duplicate (entity, month) keys must have been rejected upstream; if one
// slips through, the last record wins the index slot.
func Lag[T any](
	records []T,
	entityOf func(T) int64,
	monthOf func(T) domain.Month,
	valueOf func(T) float64,
	lags ...int,
) map[int][]float64 {
	index := make(map[Key]float64, len(records))
	for _, r := range records {
		index[Key{Entity: entityOf(r), Month: monthOf(r)}] = valueOf(r)
	}

	result := make(map[int][]float64, len(lags))
	for _, n := range lags {
		lagged := make([]float64, len(records))
		for i, r := range records {
			v, ok := index[Key{Entity: entityOf(r), Month: monthOf(r).Add(-n)}]
			if !ok {
				v = math.NaN()
			}
			lagged[i] = v
		}
		result[n] = lagged
	}
	return result
}
