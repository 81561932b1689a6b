package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matzehuels/cellblend/pkg/diagram"
)

// events streams a summary of every published state as server-sent events.
// The current state is sent first. Slow clients skip intermediate versions.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	updates := make(chan diagram.State, 1)
	cancel := s.store.Subscribe(func(st diagram.State) {
		// Subscribers run under the store's write lock; never block here.
		select {
		case updates <- st:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- st:
			default:
			}
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(st diagram.State) bool {
		data, _ := json.Marshal(summarize(st))
		if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if !send(s.store.Snapshot()) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case st := <-updates:
			if !send(st) {
				return
			}
		}
	}
}
