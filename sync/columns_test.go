package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{
		-1:  "",
		0:   "A",
		7:   "H",
		25:  "Z",
		26:  "AA",
		33:  "AH",
		51:  "AZ",
		52:  "BA",
		701: "ZZ",
		702: "AAA",
	}
	for index, want := range tests {
		assert.Equal(t, want, ColumnLetter(index), "index %d", index)
	}
}

func TestColumnLayout_Validate(t *testing.T) {
	require.NoError(t, DefaultColumnLayout().Validate())

	layout := DefaultColumnLayout()
	layout.City = -1
	layout.UpdateTimestamps = nil
	err := layout.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city")
	assert.Contains(t, err.Error(), "update timestamp")
}

func TestColumnLayout_MatchHeader(t *testing.T) {
	header := unitHeader()
	// move tenant name and add a column past the default width
	header[22] = ""
	header[5] = "Tenant Name"
	header = append(header, "postal_code")

	layout := DefaultColumnLayout()
	layout.ResolveFromHeader = true
	matched := layout.MatchHeader(header)

	assert.Equal(t, 5, matched.TenantName)
	assert.Equal(t, 0, matched.UnitID)
	assert.Equal(t, 11, matched.PostalCode, "first matching label wins")
	assert.Equal(t, 20, matched.IsVacant)
	assert.Equal(t, 7, matched.Street1)
	assert.Equal(t, []int{30, 31, 32, 33}, matched.UpdateTimestamps)
	assert.Equal(t, 34, matched.MinWidth)

	// the original layout is untouched
	assert.Equal(t, 22, layout.TenantName)
}

func TestColumnLayout_MatchHeaderGrowsMinWidth(t *testing.T) {
	header := make(Row, 41)
	header[40] = "tenantName"
	matched := DefaultColumnLayout().MatchHeader(header)
	assert.Equal(t, 40, matched.TenantName)
	assert.Equal(t, 41, matched.MinWidth)
}
