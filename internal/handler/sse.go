package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StreamSeats handles GET /schedules/{id}/seats/stream.
// It holds the connection open and pushes one SSE event per seat-count change
// on the schedule, starting with the current value. The stream ends when the
// client disconnects.
func (s *Server) StreamSeats(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	// Resolve the schedule first so an unknown id is a clean 404 rather
	// than an empty stream.
	sched, err := s.schedules.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "streaming not supported"},
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates, cancel := s.watcher.Subscribe(id)
	defer cancel()

	writeSeatEvent(w, id.String(), sched.AvailableSeats)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case seats, ok := <-updates:
			if !ok {
				return
			}
			writeSeatEvent(w, id.String(), seats)
			flusher.Flush()
		}
	}
}

func writeSeatEvent(w http.ResponseWriter, scheduleID string, seats int) {
	payload, err := json.Marshal(seatCount{ScheduleID: scheduleID, AvailableSeats: seats})
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: seats\ndata: %s\n\n", payload)
}
