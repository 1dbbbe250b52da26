// Package dataset loads the three monthly input tables the pipeline consumes:
// the signal master table, monthly CRSP share counts, and monthly
// short-interest positions. Tables are read from the intermediate directory
// as CSV (preferred) or XLSX (first sheet), with header-name aliasing so both
// CRSP-style names (permno, gvkey, time_avail_m, ret, shrout, shortint) and
// descriptive names (security_id, company_id, calendar_month, ...) resolve.
//
// Loading is strict: a missing file, a missing required column, or a
// non-empty cell that fails to parse is fatal and reported with the file,
// line, and column. Empty value cells become NaN and an empty company_id
// cell becomes a missing identifier; those are data, not errors.
package dataset
