package domain

// MasterRow is one security-month observation from the signal master table.
type MasterRow struct {
	SecurityID int64   `json:"permno"`
	CompanyID  int64   `json:"gvkey,omitempty"`
	Month      Month   `json:"time_avail_m"`
	Return     float64 `json:"ret"`
}

// HasCompany reports whether the row carries a company identifier.
// A zero CompanyID means the master table had no issuer mapping for this
// security-month.
func (r MasterRow) HasCompany() bool {
	return r.CompanyID != 0
}

// ShareRow is one security-month share count from monthly CRSP data.
// SharesOut is NaN when the source cell was empty.
type ShareRow struct {
	SecurityID int64   `json:"permno"`
	Month      Month   `json:"time_avail_m"`
	SharesOut  float64 `json:"shrout"`
}

// ShortInterestRow is one company-month short-interest position.
// ShortInterest is NaN when the source cell was empty.
type ShortInterestRow struct {
	CompanyID     int64   `json:"gvkey"`
	Month         Month   `json:"time_avail_m"`
	ShortInterest float64 `json:"shortint"`
}
