package sync

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// FieldDocRow represents a single row in the field mapping documentation.
type FieldDocRow struct {
	FieldName   string // FieldWork HQ payload path (e.g., "unit_id", "address.city")
	FieldType   string // JSON type sent to FieldWork HQ
	Column      string // Sheet column in A1 notation (e.g., "AH")
	ColumnIndex int    // Zero based column offset
	Notes       string // Mapping notes
}

// FieldDocumentation describes how the unit sheet maps to the FieldWork HQ payload.
type FieldDocumentation struct {
	Sheet string
	Rows  []FieldDocRow
}

// GenerateFieldDocumentation lists every payload field followed by the freshness columns,
// in the order the payload is built.
func GenerateFieldDocumentation(config Config) FieldDocumentation {
	layout := config.Columns
	doc := FieldDocumentation{
		Sheet: config.Sheets.Units.A1(),
		Rows:  []FieldDocRow{},
	}
	addRow := func(name, fieldType string, index int, notes string) {
		doc.Rows = append(doc.Rows, FieldDocRow{
			FieldName:   name,
			FieldType:   fieldType,
			Column:      ColumnLetter(index),
			ColumnIndex: index,
			Notes:       notes,
		})
	}

	addRow("unit_id", "string", layout.UnitID, "Identifier, also matched against "+config.Sheets.Synced.A1())
	addRow("property_id", "string", layout.PropertyID, "")
	addRow("tenant_name", "string", layout.TenantName, "")
	addRow("is_vacant", "boolean", layout.IsVacant, `true only when the cell is exactly "true"`)
	addRow("address.street1", "string", layout.Street1, "")
	addRow("address.street2", "string", layout.Street2, "")
	addRow("address.city", "string", layout.City, "")
	addRow("address.state", "string", layout.State, "")
	addRow("address.postal_code", "string", layout.PostalCode, "")
	for _, path := range slices.Sorted(maps.Keys(config.FieldWork.StaticFields)) {
		value := config.FieldWork.StaticFields[path]
		doc.Rows = append(doc.Rows, FieldDocRow{
			FieldName: path,
			FieldType: "string",
			Notes:     fmt.Sprintf("Static value %q", value),
		})
	}
	for i, index := range layout.UpdateTimestamps {
		addRow(fmt.Sprintf("(updated at %d)", i+1), "timestamp", index,
			fmt.Sprintf("Not sent, unit syncs when within %s (%s)", config.Sync.Window(), SheetTimestampFormat))
	}
	if layout.ResolveFromHeader {
		for i := range doc.Rows {
			if doc.Rows[i].Column != "" && doc.Rows[i].FieldType != "timestamp" {
				doc.Rows[i].Notes = joinNotes(doc.Rows[i].Notes, "Column may be overridden by header label")
			}
		}
	}
	return doc
}

func joinNotes(a, b string) string {
	if a == "" {
		return b
	}
	return a + " | " + b
}

// FormatCSV formats the field documentation as CSV.
func (d FieldDocumentation) FormatCSV() (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{fmt.Sprintf("# Sheet: %s", d.Sheet)}); err != nil {
		return "", err
	}
	headers := []string{"FieldWork Field", "Field Type", "Sheet Column", "Column Index", "Mapping Notes"}
	if err := writer.Write(headers); err != nil {
		return "", err
	}
	for _, row := range d.Rows {
		index := ""
		if row.Column != "" {
			index = strconv.Itoa(row.ColumnIndex)
		}
		if err := writer.Write([]string{row.FieldName, row.FieldType, row.Column, index, row.Notes}); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
