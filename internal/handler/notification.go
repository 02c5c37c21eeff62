package handler

import (
	"net/http"

	"github.com/asandov/tripmarket/internal/domain"
)

// ListMyNotifications handles GET /my/notifications.
func (s *Server) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	notifications, err := s.notifications.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": notifications})
}

// CountUnreadNotifications handles GET /my/notifications/unread.
func (s *Server) CountUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	count, err := s.notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// MarkNotificationRead handles POST /notifications/{id}/read.
// The store scopes the update to the calling user, so marking someone
// else's notification comes back as a 404.
func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.notifications.MarkRead(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
