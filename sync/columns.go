package sync

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

// ColumnLayout maps the logical unit fields to their zero based column offsets in the unit sheet.
type ColumnLayout struct {
	UnitID           int   `yaml:"unitId"`
	PropertyID       int   `yaml:"propertyId"`
	TenantName       int   `yaml:"tenantName"`
	IsVacant         int   `yaml:"isVacant"`
	Street1          int   `yaml:"street1"`
	Street2          int   `yaml:"street2"`
	City             int   `yaml:"city"`
	State            int   `yaml:"state"`
	PostalCode       int   `yaml:"postalCode"`
	UpdateTimestamps []int `yaml:"updateTimestamps"`
	MinWidth         int   `yaml:"minWidth"`
	// ResolveFromHeader lets header labels override the scalar offsets above.
	ResolveFromHeader bool `yaml:"resolveFromHeader"`
}

// DefaultColumnLayout is the Unit Info sheet layout (columns A to AH).
func DefaultColumnLayout() ColumnLayout {
	return ColumnLayout{
		UnitID:           0,
		PropertyID:       2,
		Street1:          7,
		Street2:          8,
		City:             9,
		State:            10,
		PostalCode:       11,
		IsVacant:         20,
		TenantName:       22,
		UpdateTimestamps: []int{30, 31, 32, 33},
		MinWidth:         34,
	}
}

type namedColumn struct {
	Name  string
	Index *int
}

// scalarColumns lists the single valued fields in payload order.
func (l *ColumnLayout) scalarColumns() []namedColumn {
	return []namedColumn{
		{"unitId", &l.UnitID},
		{"propertyId", &l.PropertyID},
		{"tenantName", &l.TenantName},
		{"isVacant", &l.IsVacant},
		{"street1", &l.Street1},
		{"street2", &l.Street2},
		{"city", &l.City},
		{"state", &l.State},
		{"postalCode", &l.PostalCode},
	}
}

func (l ColumnLayout) maxIndex() int {
	result := -1
	for _, c := range l.scalarColumns() {
		result = max(result, *c.Index)
	}
	if len(l.UpdateTimestamps) > 0 {
		result = max(result, slices.Max(l.UpdateTimestamps))
	}
	return result
}

// Validate checks that every offset is usable.
func (l ColumnLayout) Validate() error {
	var errs []error
	for _, c := range l.scalarColumns() {
		if *c.Index < 0 {
			errs = append(errs, fmt.Errorf("column %s has negative offset %d", c.Name, *c.Index))
		}
	}
	if len(l.UpdateTimestamps) == 0 {
		errs = append(errs, errors.New("at least one update timestamp column is required"))
	}
	for _, i := range l.UpdateTimestamps {
		if i < 0 {
			errs = append(errs, fmt.Errorf("update timestamp column has negative offset %d", i))
		}
	}
	return errors.Join(errs...)
}

// MatchHeader returns a copy of the layout where scalar fields whose name matches a
// header label take that label's offset. Labels are compared in snake case so "Tenant Name",
// "tenant_name" and "tenantName" are equivalent. Timestamp offsets are left as configured.
func (l ColumnLayout) MatchHeader(header Row) ColumnLayout {
	result := l
	result.UpdateTimestamps = slices.Clone(l.UpdateTimestamps)
	labels := make(map[string]int, len(header))
	for i, label := range header {
		key := strcase.ToSnake(strings.TrimSpace(label))
		if _, exists := labels[key]; !exists && key != "" {
			labels[key] = i
		}
	}
	for _, c := range result.scalarColumns() {
		if i, exists := labels[strcase.ToSnake(c.Name)]; exists {
			*c.Index = i
		}
	}
	result.MinWidth = max(result.MinWidth, result.maxIndex()+1)
	return result
}

// ColumnLetter converts a zero based offset to A1 notation (0 -> A, 33 -> AH).
func ColumnLetter(i int) string {
	if i < 0 {
		return ""
	}
	var letters []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters)
}
