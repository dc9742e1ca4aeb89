package core

// Row maps CSV header names to the cell values of one data row.
type Row map[string]string

// Column fallbacks, tried in order. Matching is case-sensitive.
var (
	LicenseColumns     = []string{"Licenses", "licenses"}
	DisplayNameColumns = []string{"Display name", "DisplayName"}
	UPNColumns         = []string{"User principal name", "UserPrincipalName", "UPN"}
	CompanyColumns     = []string{"Company", "Client"}
	DeviceNameColumns  = []string{"Computer Name", "DeviceName"}
	OSColumns          = []string{"OS", "OperatingSystem"}
)

// Lookup returns the first non-empty value among keys, or "".
// Values are returned as found; whitespace is not trimmed.
func (r Row) Lookup(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// MakeRow pairs a header with one CSV record.
// Cells beyond the header are dropped, missing cells are left out, and a
// repeated header name keeps its last column.
func MakeRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, h := range header {
		if i >= len(record) {
			break
		}
		row[h] = record[i]
	}
	return row
}
