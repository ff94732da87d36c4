package sync

// UnitPayload is the work order body expected by FieldWork HQ.
type UnitPayload struct {
	UnitID     string      `json:"unit_id"`
	PropertyID string      `json:"property_id"`
	TenantName string      `json:"tenant_name"`
	IsVacant   bool        `json:"is_vacant"`
	Address    UnitAddress `json:"address"`
}

type UnitAddress struct {
	Street1    string `json:"street1"`
	Street2    string `json:"street2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// BuildUnitPayload maps a unit record to the FieldWork HQ shape.
// Only the exact cell value "true" marks a unit as vacant.
func BuildUnitPayload(record UnitRecord) UnitPayload {
	return UnitPayload{
		UnitID:     record.UnitID,
		PropertyID: record.PropertyID,
		TenantName: record.TenantName,
		IsVacant:   record.IsVacant == "true",
		Address: UnitAddress{
			Street1:    record.Street1,
			Street2:    record.Street2,
			City:       record.City,
			State:      record.State,
			PostalCode: record.PostalCode,
		},
	}
}
