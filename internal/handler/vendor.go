package handler

import "net/http"

// ApplyAsVendor handles POST /vendors/apply.
// The applicant is the authenticated caller; staff are notified through the
// fanout and follow up out of band.
func (s *Server) ApplyAsVendor(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	notified, err := s.vendors.Apply(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"notified": notified})
}
