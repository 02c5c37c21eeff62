package handler

import (
	"net/http"

	"github.com/asandov/tripmarket/internal/domain"
)

// scanRequest is the body for POST /trips/{tripID}/attendance/scan.
// Scanned carries the raw QR payload (typically a confirmation-email link);
// the booking reference is extracted from it server-side. Mark must be
// "attended" or "not_attended".
type scanRequest struct {
	Scanned string `json:"scanned"`
	Mark    string `json:"mark"`
}

// ScanAttendance handles POST /trips/{tripID}/attendance/scan. Staff only.
func (s *Server) ScanAttendance(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	tripID, err := uuidParam(r, "tripID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req scanRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	mark, err := domain.ParseAttendanceStatus(req.Mark)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	booking, err := s.attendance.Scan(r.Context(), actorID, tripID, req.Scanned, mark)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
