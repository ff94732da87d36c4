package sync

import (
	"regexp"
	"strconv"
	"time"
)

// SheetTimestampFormat is the layout of the update timestamps written into the unit sheet.
// When reading, every field but the year may omit its leading zero.
const SheetTimestampFormat = "1/2/2006 15:04:05"

var sheetTimestampPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}) (\d{1,2}):(\d{1,2}):(\d{1,2})$`)

// Row is a single sheet row as returned by the values API.
// Trailing empty cells are omitted by the API so rows can be shorter than the sheet.
type Row []string

func (r Row) StringForColumn(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// UnitRecord is a typed view of one row of the unit sheet.
type UnitRecord struct {
	UnitID     string
	PropertyID string
	TenantName string
	IsVacant   string
	Street1    string
	Street2    string
	City       string
	State      string
	PostalCode string
	// UpdatedAt holds one entry per tracked sub-system, zero when the cell is blank or unparseable.
	UpdatedAt []time.Time
}

// ParseSheetTimestamp parses a timestamp cell in loc.
// The whole cell must match month/day/year hour:minute:second with every field in range,
// anything else (fractional seconds, trailing text, 02/30) reports false.
func ParseSheetTimestamp(s string, loc *time.Location) (time.Time, bool) {
	m := sheetTimestampPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	var fields [6]int
	for i := range fields {
		// at most four digits, cannot fail
		fields[i], _ = strconv.Atoi(m[i+1])
	}
	month, day, year, hour, minute, second := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	// time.Date normalises overflowing days into the next month
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// ParseUnitRow interprets row using layout. Rows narrower than the layout are skipped.
func ParseUnitRow(row Row, layout ColumnLayout, loc *time.Location) (UnitRecord, bool) {
	var result UnitRecord
	if len(row) < layout.MinWidth || len(row) <= layout.maxIndex() {
		return result, false
	}
	result.UnitID = row[layout.UnitID]
	result.PropertyID = row[layout.PropertyID]
	result.TenantName = row[layout.TenantName]
	result.IsVacant = row[layout.IsVacant]
	result.Street1 = row[layout.Street1]
	result.Street2 = row[layout.Street2]
	result.City = row[layout.City]
	result.State = row[layout.State]
	result.PostalCode = row[layout.PostalCode]
	result.UpdatedAt = make([]time.Time, len(layout.UpdateTimestamps))
	for i, column := range layout.UpdateTimestamps {
		if t, ok := ParseSheetTimestamp(row[column], loc); ok {
			result.UpdatedAt[i] = t
		}
	}
	return result, true
}

// ParseUnitRows parses every data row, dropping the header and any malformed rows.
func ParseUnitRows(rows []Row, layout ColumnLayout, loc *time.Location) []UnitRecord {
	if len(rows) < 2 {
		return nil
	}
	result := make([]UnitRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if record, ok := ParseUnitRow(row, layout, loc); ok {
			result = append(result, record)
		}
	}
	return result
}
