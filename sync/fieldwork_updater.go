package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"path/filepath"
	"slices"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FieldWorkUpdater sends unit payloads to the FieldWork HQ work order API.
// It embeds *SyncContext for shared sync configuration.
type FieldWorkUpdater struct {
	*SyncContext
	client *http.Client
}

func NewFieldWorkUpdater(sc *SyncContext) *FieldWorkUpdater {
	return &FieldWorkUpdater{
		SyncContext: sc,
		client:      &http.Client{Timeout: sc.Config.HTTP.RequestTimeout()},
	}
}

// FieldWorkAPIBuilder returns a new requests.Builder for the configured endpoint.
// The endpoint is appended to the base URL, keeping any base path such as /api.
func (u *FieldWorkUpdater) FieldWorkAPIBuilder() (*requests.Builder, error) {
	endpoint, err := url.JoinPath(u.Config.FieldWork.BaseURL, u.Config.FieldWork.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid fieldwork endpoint %w", err)
	}
	result := requests.
		URL(endpoint).
		Client(u.client)
	if u.Config.HTTP.RecordRequests {
		result = result.Transport(requests.Record(u.client.Transport, filepath.Join(u.Config.HTTP.RecordPath, "fieldwork")))
	}
	return result, nil
}

// Body encodes payload and applies the configured static fields.
func (u *FieldWorkUpdater) Body(payload UnitPayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	for _, path := range slices.Sorted(maps.Keys(u.Config.FieldWork.StaticFields)) {
		body, err = sjson.SetBytes(body, path, u.Config.FieldWork.StaticFields[path])
		if err != nil {
			return nil, fmt.Errorf("invalid static field %s %w", path, err)
		}
	}
	return body, nil
}

// Upsert posts payload. Any non 2xx response is returned as an error.
func (u *FieldWorkUpdater) Upsert(ctx context.Context, payload UnitPayload) error {
	body, err := u.Body(payload)
	if err != nil {
		return err
	}
	builder, err := u.FieldWorkAPIBuilder()
	if err != nil {
		return err
	}
	fieldWorkError := FieldWorkError{}
	var response string
	err = builder.
		Post().
		Bearer(u.Config.FieldWork.APIKey).
		BodyBytes(body).
		ContentType("application/json").
		ToString(&response).
		ErrorJSON(&fieldWorkError).
		Fetch(ctx)
	if err != nil {
		u.Logger.Error().Str("unit_id", payload.UnitID).Msgf("FieldWork Error: %+v", fieldWorkError)
		return err
	}
	// 204 and other empty bodies are accepted
	if response != "" && !gjson.Valid(response) {
		u.Logger.Error().Str("unit_id", payload.UnitID).Msgf("Invalid FieldWork Response:\n%s", response)
		return errors.New("invalid json response")
	}

	event := u.Logger.Info().Str("unit_id", payload.UnitID)
	if id := gjson.Get(response, "id"); id.Exists() {
		event = event.Str("work_order_id", id.String())
	}
	event.Msg("Sent to FieldWork HQ")
	return nil
}
