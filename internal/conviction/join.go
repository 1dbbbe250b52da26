package conviction

import (
	"math"

	"signalcli/internal/panel"
	"signalcli/pkg/contracts/domain"
)

// joinMasterShares inner-joins the master table with the monthly share
// counts on (security_id, month). Both sides declare the key unique; a
// duplicate on either side is a CardinalityError. The join is inner: a
// master row with no matching share row leaves the key space entirely and
// never reaches the output. Duplicate master keys are still fatal even when
// unmatched.
func joinMasterShares(master []domain.MasterRow, shares []domain.ShareRow) ([]Record, error) {
	shareIndex := make(map[panel.Key]float64, len(shares))
	for _, s := range shares {
		key := panel.Key{Entity: s.SecurityID, Month: s.Month}
		if _, dup := shareIndex[key]; dup {
			return nil, &CardinalityError{
				Table: "monthlyCRSP",
				Key:   securityMonthKey(s.SecurityID, s.Month),
			}
		}
		shareIndex[key] = s.SharesOut
	}

	seen := make(map[panel.Key]struct{}, len(master))
	records := make([]Record, 0, len(master))
	for _, m := range master {
		key := panel.Key{Entity: m.SecurityID, Month: m.Month}
		if _, dup := seen[key]; dup {
			return nil, &CardinalityError{
				Table: "SignalMasterTable",
				Key:   securityMonthKey(m.SecurityID, m.Month),
			}
		}
		seen[key] = struct{}{}

		shrout, ok := shareIndex[key]
		if !ok {
			continue
		}

		records = append(records, Record{
			SecurityID:    m.SecurityID,
			CompanyID:     m.CompanyID,
			Month:         m.Month,
			Return:        m.Return,
			SharesOut:     shrout,
			ShortInterest: math.NaN(),
			SIRatio:       math.NaN(),
			ReturnLag1:    math.NaN(),
			ReturnLag2:    math.NaN(),
			SIRatioLag2:   math.NaN(),
			RawFactor:     math.NaN(),
			Standardized:  math.NaN(),
		})
	}

	return records, nil
}

// partitionByCompany splits records into those carrying a company identifier
// and the carve-out set that has none. The carve-out rows skip every later
// stage and rejoin the output with a null factor.
func partitionByCompany(records []Record) (withCompany, carveOut []Record) {
	for _, r := range records {
		if r.CompanyID != 0 {
			withCompany = append(withCompany, r)
		} else {
			carveOut = append(carveOut, r)
		}
	}
	return withCompany, carveOut
}

// joinShortInterest left-joins short-interest positions onto records by
// (company_id, month). The join is declared 1:1, so a duplicate company-month
// on either side — including two securities mapping to the same company in
// one month — is a CardinalityError. Records without a match keep a NaN
// short interest.
func joinShortInterest(records []Record, short []domain.ShortInterestRow) ([]Record, error) {
	shortIndex := make(map[panel.Key]float64, len(short))
	for _, s := range short {
		key := panel.Key{Entity: s.CompanyID, Month: s.Month}
		if _, dup := shortIndex[key]; dup {
			return nil, &CardinalityError{
				Table: "monthlyShortInterest",
				Key:   companyMonthKey(s.CompanyID, s.Month),
			}
		}
		shortIndex[key] = s.ShortInterest
	}

	seen := make(map[panel.Key]struct{}, len(records))
	joined := make([]Record, len(records))
	for i, r := range records {
		key := panel.Key{Entity: r.CompanyID, Month: r.Month}
		if _, dup := seen[key]; dup {
			return nil, &CardinalityError{
				Table: "SignalMasterTable",
				Key:   companyMonthKey(r.CompanyID, r.Month),
			}
		}
		seen[key] = struct{}{}

		if v, ok := shortIndex[key]; ok {
			r.ShortInterest = v
		}
		joined[i] = r
	}

	return joined, nil
}
