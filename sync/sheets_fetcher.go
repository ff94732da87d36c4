package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// SheetsFetcher reads value ranges from the unit spreadsheet.
// It embeds *SyncContext for shared sync configuration.
type SheetsFetcher struct {
	*SyncContext
	client *http.Client
}

// NewSheetsFetcher authenticates with the configured service account key.
// Token refreshes share the per request timeout.
func NewSheetsFetcher(ctx context.Context, sc *SyncContext) (*SheetsFetcher, error) {
	key, err := os.ReadFile(sc.Config.Sheets.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets key file %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(key, sc.Config.Sheets.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheets key file %w", err)
	}
	base := &http.Client{Timeout: sc.Config.HTTP.RequestTimeout()}
	client := jwtConfig.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	client.Timeout = sc.Config.HTTP.RequestTimeout()
	return NewSheetsFetcherWithClient(sc, client), nil
}

// NewSheetsFetcherWithClient uses client as is, e.g. one already carrying credentials.
func NewSheetsFetcherWithClient(sc *SyncContext, client *http.Client) *SheetsFetcher {
	if client == nil {
		client = &http.Client{Timeout: sc.Config.HTTP.RequestTimeout()}
	}
	return &SheetsFetcher{SyncContext: sc, client: client}
}

// SheetsAPIBuilder returns a new requests.Builder for the values of rng.
func (f *SheetsFetcher) SheetsAPIBuilder(rng SheetRange) (*requests.Builder, error) {
	u, err := url.JoinPath(f.Config.Sheets.Endpoint,
		"v4", "spreadsheets", url.PathEscape(f.Config.Sheets.SpreadsheetID),
		"values", url.PathEscape(rng.A1()))
	if err != nil {
		return nil, fmt.Errorf("invalid sheets endpoint %w", err)
	}
	result := requests.
		URL(u).
		Client(f.client)
	if f.Config.HTTP.RecordRequests {
		result = result.Transport(requests.Record(f.client.Transport, filepath.Join(f.Config.HTTP.RecordPath, "sheets")))
	}
	return result, nil
}

// FetchRows returns every row of rng, header included. Cells are the formatted values.
func (f *SheetsFetcher) FetchRows(ctx context.Context, rng SheetRange) ([]Row, error) {
	builder, err := f.SheetsAPIBuilder(rng)
	if err != nil {
		return nil, err
	}
	var sheetsError SheetsError
	var json string
	err = builder.
		Param("majorDimension", "ROWS").
		ToString(&json).
		ErrorJSON(&sheetsError).
		Fetch(ctx)
	if err != nil {
		f.Logger.Error().
			Str("range", rng.A1()).
			Int("code", sheetsError.Error.Code).
			Str("status", sheetsError.Error.Status).
			Msg(sheetsError.Error.Message)
		return nil, fmt.Errorf("failed to read %s %w", rng.A1(), err)
	}
	if !gjson.Valid(json) {
		f.Logger.Error().Str("range", rng.A1()).Msgf("Invalid Sheets Response:\n%s", json)
		return nil, errors.New("invalid json response")
	}

	values := gjson.Get(json, "values").Array()
	result := make([]Row, 0, len(values))
	for _, v := range values {
		cells := v.Array()
		row := make(Row, len(cells))
		for i, c := range cells {
			row[i] = c.String()
		}
		result = append(result, row)
	}
	f.Logger.Debug().Str("range", rng.A1()).Int("rows", len(result)).Msg("Read sheet")
	return result, nil
}
