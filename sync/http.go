package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HTTPRequestTimeout is the default timeout for all HTTP requests to external APIs.
const HTTPRequestTimeout = 60 * time.Second

// NewHTTPHandler exposes the trigger endpoint and the liveness check.
//
//	POST /sync  runs one sync and responds with the Result
//	GET  /      responds "Service is running"
func NewHTTPHandler(syncer *Syncer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sync", func(w http.ResponseWriter, r *http.Request) {
		// a sync is not abandoned when the caller disconnects
		result := syncer.Run(context.WithoutCancel(r.Context()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(result.HTTPStatus())
		if err := json.NewEncoder(w).Encode(result); err != nil {
			syncer.Logger.Error().Err(err).Msg("failed to write sync result")
		}
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Service is running"))
	})
	return mux
}
