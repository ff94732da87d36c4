package sync

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"net/http"
	"net/http/httptest"
	gosync "sync"
	"testing"
	"time"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testTimestamp(t time.Time) string {
	return t.Format(SheetTimestampFormat)
}

func testConfig() Config {
	return Config{
		Sheets: SheetsSettings{
			SpreadsheetID: "sheet-123",
			KeyFile:       "key.json",
			Units:         SheetRange{Sheet: "Unit Info", Range: "A1:AH"},
			Synced:        SheetRange{Sheet: "FieldWork- FreshAir", Range: "A1:A"},
		},
		FieldWork: FieldWorkSettings{
			Endpoint: "/work_orders",
			APIKey:   "test-key",
		},
		Columns: DefaultColumnLayout(),
		Sync: SyncSettings{
			FreshnessWindow: DefaultFreshnessWindow,
			Timezone:        "UTC",
		},
		HTTP: HTTPSettings{Timeout: 5 * time.Second},
	}
}

func unitHeader() Row {
	row := make(Row, 34)
	row[0] = "Unit ID"
	row[2] = "Property ID"
	row[7] = "Street 1"
	row[8] = "Street 2"
	row[9] = "City"
	row[10] = "State"
	row[11] = "Postal Code"
	row[20] = "Is Vacant"
	row[22] = "Tenant Name"
	row[30] = "Rent Manager Updated"
	row[31] = "Lease Updated"
	row[32] = "Inspection Updated"
	row[33] = "Maintenance Updated"
	return row
}

// unitRow builds a full width unit row, updated fills the timestamp columns in order.
func unitRow(id string, updated ...string) Row {
	row := make(Row, 34)
	row[0] = id
	row[2] = "P-" + id
	row[7] = "1 Main St"
	row[8] = "Apt " + id
	row[9] = "Springfield"
	row[10] = "IL"
	row[11] = "62701"
	row[20] = "true"
	row[22] = "Tenant " + id
	copy(row[30:], updated)
	return row
}

// recordedRequests concatenates every file written under dir by requests.Record.
func recordedRequests(t *testing.T, dir string) string {
	var sb strings.Builder
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := os.ReadFile(path)
		sb.Write(b)
		return err
	})
	if err != nil {
		t.Fatalf("Failed to read recorded requests %v", err)
	}
	return sb.String()
}

type fakeSource struct {
	mu        gosync.Mutex
	sheets    map[string][]Row
	errs      map[string]error
	requested []string
}

func (f *fakeSource) FetchRows(ctx context.Context, rng SheetRange) ([]Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, rng.Sheet)
	if err := f.errs[rng.Sheet]; err != nil {
		return nil, err
	}
	return f.sheets[rng.Sheet], nil
}

// fieldWorkServer accepts work orders until failFrom requests have been made.
type fieldWorkServer struct {
	*httptest.Server
	mu       gosync.Mutex
	calls    int
	failFrom int
	auth     []string
	payloads []UnitPayload
	bodies   []string
}

func newFieldWorkServer(t *testing.T, failFrom int) *fieldWorkServer {
	s := &fieldWorkServer{failFrom: failFrom}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.calls++
		if r.Method != http.MethodPost || r.URL.Path != "/work_orders" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if s.failFrom > 0 && s.calls >= s.failFrom {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"unavailable"}`))
			return
		}
		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var payload UnitPayload
		_ = json.Unmarshal(raw, &payload)
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		s.payloads = append(s.payloads, payload)
		s.bodies = append(s.bodies, string(raw))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *fieldWorkServer) Payloads() []UnitPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UnitPayload(nil), s.payloads...)
}

func (s *fieldWorkServer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
