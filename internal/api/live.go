package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/waterworks-ph/waterworks/internal/storage"
)

// handleLiveBills streams the full bill list over Server-Sent Events,
// re-sending the snapshot whenever a bill changes. SSE keeps the console's
// dashboards current without polling.
func (s *Server) handleLiveBills(w http.ResponseWriter, r *http.Request) {
	s.streamCollection(w, r, storage.CollectionBills, func(ctx context.Context) (any, error) {
		return s.store.ListBills(ctx)
	})
}

// handleLiveCustomers streams the customer list the same way.
func (s *Server) handleLiveCustomers(w http.ResponseWriter, r *http.Request) {
	s.streamCollection(w, r, storage.CollectionCustomers, func(ctx context.Context) (any, error) {
		return s.store.ListCustomers(ctx)
	})
}

func (s *Server) streamCollection(w http.ResponseWriter, r *http.Request, collection string, snapshot func(context.Context) (any, error)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	updates := s.store.Watch(ctx, collection)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func() bool {
		data, err := snapshot(ctx)
		if err != nil {
			return false
		}
		payload, err := json.Marshal(data)
		if err != nil {
			return false
		}
		w.Write([]byte("data: "))
		w.Write(payload)
		w.Write([]byte("\n\n"))
		flusher.Flush()
		return true
	}

	// Initial snapshot, then one per change signal. Signals are coalesced by
	// the store, so a burst of writes costs one refresh.
	if !send() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if !send() {
				return
			}
		}
	}
}
