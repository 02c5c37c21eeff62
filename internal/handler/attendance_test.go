package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asandov/tripmarket/internal/domain"
)

func scanReq(t *testing.T, tripID uuid.UUID, scanned, mark string) *http.Request {
	t.Helper()
	body := jsonBody(t, map[string]any{"scanned": scanned, "mark": mark})
	return httptest.NewRequest(http.MethodPost, "/trips/"+tripID.String()+"/attendance/scan", body)
}

func TestScanAttendance_200(t *testing.T) {
	tripID := uuid.New()
	fixture := bookingFixture(uuid.New())
	fixture.AttendanceStatus = domain.AttendanceAttended

	var gotScanned string
	var gotMark domain.AttendanceStatus
	h := newTestHandler(deps{
		attendance: &mockAttendanceServicer{
			scan: func(_ context.Context, actorID, gotTripID uuid.UUID, scanned string, mark domain.AttendanceStatus) (domain.Booking, error) {
				require.Equal(t, testUserID, actorID)
				require.Equal(t, tripID, gotTripID)
				gotScanned, gotMark = scanned, mark
				return fixture, nil
			},
		},
	})

	link := "https://booking.example.com/confirm/" + fixture.Reference
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, scanReq(t, tripID, link, "attended"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, link, gotScanned, "the raw payload is passed through; extraction is server-side")
	assert.Equal(t, domain.AttendanceAttended, gotMark)
	assert.Contains(t, rec.Body.String(), `"attended"`)
}

func TestScanAttendance_404ForUnknownToken(t *testing.T) {
	h := newTestHandler(deps{
		attendance: &mockAttendanceServicer{
			scan: func(_ context.Context, _, _ uuid.UUID, _ string, _ domain.AttendanceStatus) (domain.Booking, error) {
				return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: %w", domain.ErrNotFound)
			},
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, scanReq(t, uuid.New(), "gibberish", "attended"))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// An unknown mark string is rejected at the edge, before the service runs.
func TestScanAttendance_422ForUnknownMark(t *testing.T) {
	serviceCalled := false
	h := newTestHandler(deps{
		attendance: &mockAttendanceServicer{
			scan: func(_ context.Context, _, _ uuid.UUID, _ string, _ domain.AttendanceStatus) (domain.Booking, error) {
				serviceCalled = true
				return domain.Booking{}, nil
			},
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, scanReq(t, uuid.New(), domain.NewReference(), "checked-in"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, serviceCalled)
}

func TestScanAttendance_409WhenAlreadyResolved(t *testing.T) {
	h := newTestHandler(deps{
		attendance: &mockAttendanceServicer{
			scan: func(_ context.Context, _, _ uuid.UUID, _ string, _ domain.AttendanceStatus) (domain.Booking, error) {
				return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: %w", domain.ErrInvalidTransition)
			},
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, scanReq(t, uuid.New(), domain.NewReference(), "attended"))

	require.Equal(t, http.StatusConflict, rec.Code)
}
