package conviction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalcli/pkg/contracts/domain"
)

var month0 = domain.MonthOf(2024, time.January)

// TestJoinMasterShares tests the inner 1:1 join with share counts
func TestJoinMasterShares(t *testing.T) {
	master := []domain.MasterRow{
		{SecurityID: 1, CompanyID: 10, Month: month0, Return: 0.05},
		{SecurityID: 2, CompanyID: 0, Month: month0, Return: -0.01},
		{SecurityID: 3, CompanyID: 30, Month: month0, Return: 0.02},
	}
	shares := []domain.ShareRow{
		{SecurityID: 1, Month: month0, SharesOut: 1000},
		{SecurityID: 2, Month: month0, SharesOut: 2000},
	}

	records, err := joinMasterShares(master, shares)
	require.NoError(t, err)
	require.Len(t, records, 2, "master row without a share match leaves the key space")

	assert.Equal(t, int64(1), records[0].SecurityID)
	assert.Equal(t, 1000.0, records[0].SharesOut)
	assert.Equal(t, int64(2), records[1].SecurityID)
	assert.Equal(t, 2000.0, records[1].SharesOut)
	assert.True(t, math.IsNaN(records[0].ShortInterest), "short interest unset before its join")
}

// TestJoinMasterSharesInner tests that unmatched security-months are dropped
// on both sides, not carried with missing values
func TestJoinMasterSharesInner(t *testing.T) {
	master := []domain.MasterRow{
		{SecurityID: 1, CompanyID: 10, Month: month0, Return: 0.05},
		{SecurityID: 1, CompanyID: 10, Month: month0.Add(1), Return: 0.01},
		{SecurityID: 2, CompanyID: 20, Month: month0, Return: -0.01},
	}
	// Security 2 has no share row at all, and security 1 has none for the
	// second month; neither key may survive the join.
	shares := []domain.ShareRow{
		{SecurityID: 1, Month: month0, SharesOut: 1000},
		{SecurityID: 9, Month: month0, SharesOut: 500},
	}

	records, err := joinMasterShares(master, shares)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].SecurityID)
	assert.Equal(t, month0, records[0].Month)

	// Share-only keys never materialize rows either.
	for _, r := range records {
		assert.NotEqual(t, int64(9), r.SecurityID)
	}
}

// TestJoinMasterSharesDuplicates tests cardinality enforcement on both sides
func TestJoinMasterSharesDuplicates(t *testing.T) {
	t.Run("duplicate master key", func(t *testing.T) {
		master := []domain.MasterRow{
			{SecurityID: 1, Month: month0},
			{SecurityID: 1, Month: month0},
		}
		_, err := joinMasterShares(master, nil)
		require.Error(t, err)

		var ce *CardinalityError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "SignalMasterTable", ce.Table)
		assert.Contains(t, ce.Key, "permno=1")
	})

	t.Run("duplicate share key", func(t *testing.T) {
		shares := []domain.ShareRow{
			{SecurityID: 5, Month: month0, SharesOut: 100},
			{SecurityID: 5, Month: month0, SharesOut: 200},
		}
		_, err := joinMasterShares(nil, shares)
		require.Error(t, err)

		var ce *CardinalityError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "monthlyCRSP", ce.Table)
	})

	t.Run("same security in different months is fine", func(t *testing.T) {
		master := []domain.MasterRow{
			{SecurityID: 1, Month: month0},
			{SecurityID: 1, Month: month0.Add(1)},
		}
		records, err := joinMasterShares(master, nil)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

// TestPartitionByCompany tests the missing-company carve-out
func TestPartitionByCompany(t *testing.T) {
	records := []Record{
		{SecurityID: 1, CompanyID: 10, Month: month0},
		{SecurityID: 2, CompanyID: 0, Month: month0},
		{SecurityID: 3, CompanyID: 30, Month: month0},
	}

	withCompany, carveOut := partitionByCompany(records)
	require.Len(t, withCompany, 2)
	require.Len(t, carveOut, 1)
	assert.Equal(t, int64(2), carveOut[0].SecurityID)
}

// TestJoinShortInterest tests the left 1:1 join with short interest
func TestJoinShortInterest(t *testing.T) {
	records := []Record{
		{SecurityID: 1, CompanyID: 10, Month: month0, ShortInterest: math.NaN()},
		{SecurityID: 3, CompanyID: 30, Month: month0, ShortInterest: math.NaN()},
	}
	short := []domain.ShortInterestRow{
		{CompanyID: 10, Month: month0, ShortInterest: 80},
	}

	joined, err := joinShortInterest(records, short)
	require.NoError(t, err)
	require.Len(t, joined, 2, "left join drops no rows")

	assert.Equal(t, 80.0, joined[0].ShortInterest)
	assert.True(t, math.IsNaN(joined[1].ShortInterest), "unmatched company keeps missing short interest")
}

// TestJoinShortInterestDuplicates tests cardinality enforcement on both sides
func TestJoinShortInterestDuplicates(t *testing.T) {
	t.Run("duplicate short-interest key", func(t *testing.T) {
		short := []domain.ShortInterestRow{
			{CompanyID: 10, Month: month0, ShortInterest: 80},
			{CompanyID: 10, Month: month0, ShortInterest: 90},
		}
		_, err := joinShortInterest(nil, short)
		require.Error(t, err)

		var ce *CardinalityError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "monthlyShortInterest", ce.Table)
		assert.Contains(t, ce.Key, "gvkey=10")
	})

	t.Run("two securities sharing a company in one month", func(t *testing.T) {
		records := []Record{
			{SecurityID: 1, CompanyID: 10, Month: month0},
			{SecurityID: 2, CompanyID: 10, Month: month0},
		}
		_, err := joinShortInterest(records, nil)
		require.Error(t, err)

		var ce *CardinalityError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "SignalMasterTable", ce.Table)
	})
}
