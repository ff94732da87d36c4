package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/config"
)

type Config struct {
	Sheets    SheetsSettings
	FieldWork FieldWorkSettings
	Columns   ColumnLayout
	Sync      SyncSettings
	HTTP      HTTPSettings
	Server    ServerSettings
	Log       LogSettings
}

type SheetsSettings struct {
	SpreadsheetID string `yaml:"spreadsheetId"`
	// KeyFile is the path of the service account key used to read the spreadsheet.
	KeyFile  string   `yaml:"keyFile"`
	Scopes   []string `yaml:"scopes"`
	Endpoint string   `yaml:"endpoint"`
	// Units is the authoritative unit sheet, Synced lists the unit ids already in FieldWork HQ.
	Units  SheetRange `yaml:"units"`
	Synced SheetRange `yaml:"synced"`
}

type SheetRange struct {
	Sheet string `yaml:"sheet"`
	Range string `yaml:"range"`
}

// A1 returns the range in A1 notation, e.g. "Unit Info!A1:AH".
func (r SheetRange) A1() string {
	return fmt.Sprintf("%s!%s", r.Sheet, r.Range)
}

type FieldWorkSettings struct {
	BaseURL  string `yaml:"baseURL"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	// StaticFields are set on every forwarded body, keyed by sjson path.
	StaticFields map[string]string `yaml:"staticFields"`
}

type SyncSettings struct {
	FreshnessWindow time.Duration `yaml:"freshnessWindow"`
	// Timezone the sheet timestamps are written in, "Local" by default.
	Timezone string `yaml:"timezone"`
}

// Location loads the configured timezone.
func (s SyncSettings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Window returns the freshness window, falling back to DefaultFreshnessWindow.
func (s SyncSettings) Window() time.Duration {
	if s.FreshnessWindow <= 0 {
		return DefaultFreshnessWindow
	}
	return s.FreshnessWindow
}

type HTTPSettings struct {
	Timeout        time.Duration `yaml:"timeout"`
	RecordRequests bool          `yaml:"recordRequests"`
	RecordPath     string        `yaml:"recordPath"`
}

// RequestTimeout returns the per request timeout, falling back to HTTPRequestTimeout.
func (h HTTPSettings) RequestTimeout() time.Duration {
	if h.Timeout <= 0 {
		return HTTPRequestTimeout
	}
	return h.Timeout
}

type ServerSettings struct {
	Addr string `yaml:"addr"`
}

type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Validate reports every missing or invalid setting needed for a sync run.
func (c Config) Validate() error {
	var errs []error
	if c.Sheets.SpreadsheetID == "" {
		errs = append(errs, errors.New("sheets.spreadsheetId is required"))
	}
	if c.Sheets.KeyFile == "" {
		errs = append(errs, errors.New("sheets.keyFile is required"))
	}
	if c.Sheets.Units.Sheet == "" || c.Sheets.Units.Range == "" {
		errs = append(errs, errors.New("sheets.units sheet and range are required"))
	}
	if c.Sheets.Synced.Sheet == "" || c.Sheets.Synced.Range == "" {
		errs = append(errs, errors.New("sheets.synced sheet and range are required"))
	}
	if c.FieldWork.BaseURL == "" {
		errs = append(errs, errors.New("fieldwork.baseURL is required"))
	}
	if c.FieldWork.APIKey == "" {
		errs = append(errs, errors.New("fieldwork.apiKey is required"))
	}
	if _, err := c.Sync.Location(); err != nil {
		errs = append(errs, fmt.Errorf("sync.timezone: %w", err))
	}
	if err := c.Columns.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type CompositeEnvVar interface {
	LookupEnv(child string) (string, bool)
}

// JSONCompositeEnvVar looks up values inside a single env var holding a JSON object,
// e.g. FIELDSYNC='{"FIELDWORK_API_KEY":"..."}'.
type JSONCompositeEnvVar struct {
	Parent string
}

func (c JSONCompositeEnvVar) LookupEnv(child string) (string, bool) {
	if c.Parent != "" {
		s := os.Getenv(c.Parent)
		if s != "" {
			m := make(map[string]string)
			err := json.Unmarshal([]byte(s), &m)
			if err == nil {
				v, exists := m[child]
				return v, exists
			}
		}
	}
	return "", false
}

// LayeredEnvVar consults each layer in turn, falling back to the process environment.
type LayeredEnvVar []CompositeEnvVar

func (l LayeredEnvVar) LookupEnv(child string) (string, bool) {
	for _, layer := range l {
		if v, exists := layer.LookupEnv(child); exists {
			return v, true
		}
	}
	return os.LookupEnv(child)
}

type YAMLConfigUnmarshaler struct{}

func (u YAMLConfigUnmarshaler) Unmarshal(compev CompositeEnvVar, sources ...ConfigFile) (Config, error) {
	var result Config
	var options []config.YAMLOption
	for _, s := range sources {
		if s.Length > 0 {
			options = append(options, config.Source(s.Reader))
		}
	}
	options = append(options, config.Expand(compev.LookupEnv))
	yaml, err := config.NewYAML(options...)
	if err != nil {
		return result, fmt.Errorf("failed to read yaml config %w", err)
	}
	readError := func(key string, cause error) error {
		return fmt.Errorf("failed to read '%s' from yaml config %w", key, cause)
	}
	key := "sheets"
	err = yaml.Get(key).Populate(&result.Sheets)
	if err != nil {
		return result, readError(key, err)
	}
	key = "fieldwork"
	err = yaml.Get(key).Populate(&result.FieldWork)
	if err != nil {
		return result, readError(key, err)
	}
	key = "columns"
	result.Columns = DefaultColumnLayout()
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.Columns)
		if err != nil {
			return result, readError(key, err)
		}
	}
	key = "sync"
	err = yaml.Get(key).Populate(&result.Sync)
	if err != nil {
		return result, readError(key, err)
	}
	key = "http"
	err = yaml.Get(key).Populate(&result.HTTP)
	if err != nil {
		return result, readError(key, err)
	}
	key = "server"
	err = yaml.Get(key).Populate(&result.Server)
	if err != nil {
		return result, readError(key, err)
	}
	key = "log"
	err = yaml.Get(key).Populate(&result.Log)
	if err != nil {
		return result, readError(key, err)
	}
	return result, nil
}
