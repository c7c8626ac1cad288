//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meetslot/internal/domain/booking"
	"meetslot/internal/handler/api"
	"meetslot/internal/pkg/clock"
	"meetslot/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubBookingsUC struct {
	createResult *usecase.BookingResult
	createErr    error
	cancelErr    error
	listResult   []*booking.Booking
	listErr      error

	gotInput    usecase.CreateBookingInput
	gotCancelID uuid.UUID
	gotHostID   uuid.UUID
	gotReason   string
	gotFrom     time.Time
	gotTo       time.Time
}

func (s *stubBookingsUC) Create(_ context.Context, in usecase.CreateBookingInput) (*usecase.BookingResult, error) {
	s.gotInput = in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createResult, nil
}

func (s *stubBookingsUC) Cancel(_ context.Context, bookingID, hostID uuid.UUID, reason string) (*booking.Booking, error) {
	s.gotCancelID = bookingID
	s.gotHostID = hostID
	s.gotReason = reason
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	b := newTestBooking()
	_ = b.Cancel(reason, time.Now())
	return b, nil
}

func (s *stubBookingsUC) ListForHost(_ context.Context, _ uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	s.gotFrom = from
	s.gotTo = to
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResult, nil
}

func newTestBooking() *booking.Booking {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	b, err := booking.NewBooking(
		uuid.New(),
		start, start.Add(30*time.Minute),
		0, 0,
		"Bob Visitor", "bob@example.com", "", "UTC",
		start.Add(-time.Hour),
	)
	if err != nil {
		panic(err)
	}
	return b
}

var testHostID = uuid.MustParse("aaaaaaaa-1111-2222-3333-444444444444")

type BookingHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	stub   *stubBookingsUC
	clock  *clock.MockClock
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.stub = &stubBookingsUC{}
	s.clock = clock.NewMockClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	handler := api.NewBookingHandler(s.stub, s.clock)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("host_id", testHostID)
		c.Next()
	}

	s.router.POST("/api/hosts/:username/events/:slug/bookings", handler.CreateBooking)
	s.router.GET("/api/me/bookings", authMiddleware, handler.GetHostBookings)
	s.router.POST("/api/me/bookings/:id/cancel", authMiddleware, handler.CancelBooking)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func validCreateBody() map[string]any {
	return map[string]any{
		"visitorDate": "2026-03-02",
		"timezone":    "UTC",
		"startAtUtc":  "2026-03-02T10:00:00Z",
		"slotToken":   "abc123",
		"name":        "Bob Visitor",
		"email":       "bob@example.com",
	}
}

func (s *BookingHandlerTestSuite) post(url string, body map[string]any, authorized bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer token")
	}
	s.router.ServeHTTP(w, req)
	return w
}

func (s *BookingHandlerTestSuite) TestCreateBookingSuccess() {
	s.stub.createResult = &usecase.BookingResult{
		Booking:    newTestBooking(),
		Email:      usecase.EmailReport{Status: usecase.EmailStatusSent},
		MeetingURL: "https://meet.example/abc",
	}

	w := s.post("/api/hosts/alice/events/intro/bookings", validCreateBody(), false)

	s.Equal(http.StatusCreated, w.Code)
	s.Equal("alice", s.stub.gotInput.Username)
	s.Equal("intro", s.stub.gotInput.Slug)
	s.Equal("2026-03-02", s.stub.gotInput.Date)
	s.Equal("Bob Visitor", s.stub.gotInput.InviteeName)
	s.Equal("bob@example.com", s.stub.gotInput.InviteeEmail)
	s.Equal(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), s.stub.gotInput.StartAtUTC)
	s.Contains(w.Body.String(), `"emailStatus":{"sent":true}`)
	s.Contains(w.Body.String(), `"meetingUrl":"https://meet.example/abc"`)
	s.Contains(w.Body.String(), `"status":"confirmed"`)
}

func (s *BookingHandlerTestSuite) TestCreateBookingEmailFailureSurfaced() {
	s.stub.createResult = &usecase.BookingResult{
		Booking: newTestBooking(),
		Email:   usecase.EmailReport{Status: usecase.EmailStatusFailed, Reason: "ses: throttled"},
	}

	w := s.post("/api/hosts/alice/events/intro/bookings", validCreateBody(), false)

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"emailStatus":{"sent":false,"reason":"ses: throttled"}`)
}

func (s *BookingHandlerTestSuite) TestCreateBookingMissingFields() {
	body := validCreateBody()
	delete(body, "slotToken")
	w := s.post("/api/hosts/alice/events/intro/bookings", body, false)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BookingHandlerTestSuite) TestCreateBookingErrorMapping() {
	cases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{"invalid date", usecase.ErrInvalidDate, http.StatusBadRequest},
		{"invalid timezone", usecase.ErrInvalidTimezone, http.StatusBadRequest},
		{"bad invitee", usecase.ErrDomainValidationFailed, http.StatusBadRequest},
		{"bad token", usecase.ErrInvalidSlotToken, http.StatusForbidden},
		{"unknown event", usecase.ErrEventTypeNotFound, http.StatusNotFound},
		{"slot gone", usecase.ErrSlotUnavailable, http.StatusConflict},
		{"cap reached", usecase.ErrDailyLimitReached, http.StatusConflict},
		{"internal", usecase.ErrDatabaseOperationFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.stub.createErr = tc.err
			w := s.post("/api/hosts/alice/events/intro/bookings", validCreateBody(), false)
			s.Equal(tc.expectCode, w.Code)
		})
	}
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	id := uuid.New()
	w := s.post("/api/me/bookings/"+id.String()+"/cancel", map[string]any{"reason": "host is away"}, true)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(id, s.stub.gotCancelID)
	s.Equal(testHostID, s.stub.gotHostID)
	s.Equal("host is away", s.stub.gotReason)
	s.Contains(w.Body.String(), `"status":"canceled"`)
}

func (s *BookingHandlerTestSuite) TestCancelBookingRequiresAuth() {
	w := s.post("/api/me/bookings/"+uuid.NewString()+"/cancel", nil, false)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BookingHandlerTestSuite) TestCancelBookingBadID() {
	w := s.post("/api/me/bookings/not-a-uuid/cancel", nil, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *BookingHandlerTestSuite) TestCancelBookingErrorMapping() {
	cases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{"not found", usecase.ErrBookingNotFound, http.StatusNotFound},
		{"already canceled", usecase.ErrBookingAlreadyCanceled, http.StatusConflict},
		{"internal", usecase.ErrDatabaseOperationFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.stub.cancelErr = tc.err
			w := s.post("/api/me/bookings/"+uuid.NewString()+"/cancel", nil, true)
			s.Equal(tc.expectCode, w.Code)
		})
	}
}

func (s *BookingHandlerTestSuite) TestGetHostBookings() {
	s.stub.listResult = []*booking.Booking{newTestBooking()}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/me/bookings?from=2026-03-01&to=2026-03-07", nil)
	req.Header.Set("Authorization", "Bearer token")
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"inviteeName":"Bob Visitor"`)
}

func (s *BookingHandlerTestSuite) TestGetHostBookingsDefaultRange() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/me/bookings", nil)
	req.Header.Set("Authorization", "Bearer token")
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), s.stub.gotFrom)
	s.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), s.stub.gotTo)
}

func (s *BookingHandlerTestSuite) TestGetHostBookingsBadRange() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/me/bookings?from=March+1st", nil)
	req.Header.Set("Authorization", "Bearer token")
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}
