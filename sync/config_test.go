package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv isolates a test from config set in the surrounding environment.
func clearConfigEnv(t *testing.T) {
	for _, name := range []string{
		ConfigPathEnvVar, CompositeEnvVarName,
		"SHEETS_SPREADSHEET_ID", "SHEETS_KEY_FILE",
		"FIELDWORK_BASE_URL", "FIELDWORK_ENDPOINT", "FIELDWORK_API_KEY",
		"SYNC_TIMEZONE", "ADDR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadConfigFromEnvironment_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FIELDWORK_API_KEY", "secret")

	config, err := LoadConfigFromEnvironment()
	require.NoError(t, err)

	assert.Equal(t, "191pGup4d902zzD-Qm6d_BYudJ18DWSVuaiUHbZoUvkI", config.Sheets.SpreadsheetID)
	assert.Equal(t, "rentmanager-sheets-key.json", config.Sheets.KeyFile)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/spreadsheets"}, config.Sheets.Scopes)
	assert.Equal(t, "Unit Info!A1:AH", config.Sheets.Units.A1())
	assert.Equal(t, "FieldWork- FreshAir!A1:A", config.Sheets.Synced.A1())
	assert.Equal(t, "https://app.fieldworkhq.com/api", config.FieldWork.BaseURL)
	assert.Equal(t, "/work_orders", config.FieldWork.Endpoint)
	assert.Equal(t, "secret", config.FieldWork.APIKey)
	assert.Equal(t, DefaultColumnLayout(), config.Columns)
	assert.Equal(t, 24*time.Hour, config.Sync.FreshnessWindow)
	assert.Equal(t, "Local", config.Sync.Timezone)
	assert.Equal(t, HTTPRequestTimeout, config.HTTP.RequestTimeout())
	assert.False(t, config.HTTP.RecordRequests)
	assert.Equal(t, "0.0.0.0:8080", config.Server.Addr)
	assert.Equal(t, "info", config.Log.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigFromEnvironment_MissingAPIKey(t *testing.T) {
	clearConfigEnv(t)

	config, err := LoadConfigFromEnvironment()
	require.NoError(t, err)

	assert.Empty(t, config.FieldWork.APIKey)
	assert.ErrorContains(t, config.Validate(), "fieldwork.apiKey is required")
}

func TestLoadConfigFromEnvironment_CompositeEnvVar(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FIELDWORK_API_KEY", "from-env")
	t.Setenv("ADDR", "127.0.0.1:9000")
	t.Setenv(CompositeEnvVarName, `{"FIELDWORK_API_KEY": "from-composite", "SYNC_TIMEZONE": "America/Chicago"}`)

	config, err := LoadConfigFromEnvironment()
	require.NoError(t, err)

	assert.Equal(t, "from-composite", config.FieldWork.APIKey)
	assert.Equal(t, "America/Chicago", config.Sync.Timezone)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Addr)

	t.Setenv("FIELDSYNC_STAGING", `{"FIELDWORK_API_KEY": "from-staging"}`)
	config, err = LoadConfigFromEnvironment(ConfigWithCompositeEnvVar("FIELDSYNC_STAGING"))
	require.NoError(t, err)
	assert.Equal(t, "from-staging", config.FieldWork.APIKey)
}

func TestLoadConfigFromEnvironment_Source(t *testing.T) {
	clearConfigEnv(t)
	override := newConfigFile("override.yaml", []byte(`
fieldwork:
  apiKey: inline
  staticFields:
    source: fieldsync
columns:
  tenantName: 5
  resolveFromHeader: true
sync:
  freshnessWindow: 6h
`))

	config, err := LoadConfigFromEnvironment(ConfigWithSource(override))
	require.NoError(t, err)

	assert.Equal(t, "inline", config.FieldWork.APIKey)
	assert.Equal(t, map[string]string{"source": "fieldsync"}, config.FieldWork.StaticFields)
	assert.Equal(t, 5, config.Columns.TenantName)
	assert.True(t, config.Columns.ResolveFromHeader)
	assert.Equal(t, DefaultColumnLayout().UpdateTimestamps, config.Columns.UpdateTimestamps)
	assert.Equal(t, 6*time.Hour, config.Sync.Window())
	assert.Equal(t, "https://app.fieldworkhq.com/api", config.FieldWork.BaseURL)
}

func TestLoadConfigFromEnvironment_File(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "fieldsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sheets:\n  spreadsheetId: from-file\n"), 0o600))

	config, err := LoadConfigFromEnvironment(ConfigWithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "from-file", config.Sheets.SpreadsheetID)

	t.Setenv(ConfigPathEnvVar, path)
	config, err = LoadConfigFromEnvironment(ConfigWithFile(""))
	require.NoError(t, err)
	assert.Equal(t, "from-file", config.Sheets.SpreadsheetID)

	_, err = LoadConfigFromEnvironment(ConfigWithFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Validate(t *testing.T) {
	config := testConfig()
	config.FieldWork.BaseURL = "https://example.test/api"
	assert.NoError(t, config.Validate())

	err := Config{Sync: SyncSettings{Timezone: "Not/AZone"}}.Validate()
	require.Error(t, err)
	for _, msg := range []string{
		"sheets.spreadsheetId is required",
		"sheets.keyFile is required",
		"sheets.units sheet and range are required",
		"sheets.synced sheet and range are required",
		"fieldwork.baseURL is required",
		"fieldwork.apiKey is required",
		"sync.timezone",
		"at least one update timestamp column is required",
	} {
		assert.ErrorContains(t, err, msg)
	}
}

func TestSettingsFallbacks(t *testing.T) {
	assert.Equal(t, DefaultFreshnessWindow, SyncSettings{}.Window())
	assert.Equal(t, HTTPRequestTimeout, HTTPSettings{}.RequestTimeout())
	loc, err := SyncSettings{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
