package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/service"
)

// Server is the thin HTTP surface over the reservation engine. Request
// validation beyond shape decoding belongs to the upstream gateway; this
// layer decodes, delegates and maps error kinds to status codes.
type Server struct {
	reservations  service.ReservationService
	bookings      service.BookingService
	calendar      service.CalendarService
	policies      service.PolicyService
	payments      service.PaymentService
	notifications service.NotificationService
}

func NewServer(
	reservations service.ReservationService,
	bookings service.BookingService,
	calendar service.CalendarService,
	policies service.PolicyService,
	payments service.PaymentService,
	notifications service.NotificationService,
) *Server {
	return &Server{
		reservations:  reservations,
		bookings:      bookings,
		calendar:      calendar,
		policies:      policies,
		payments:      payments,
		notifications: notifications,
	}
}

// Router builds the mux router with all engine routes registered.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/bookings", s.handleReserve).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{id:[0-9]+}", s.handleGetBooking).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id:[0-9]+}/confirm", s.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{id:[0-9]+}/cancel", s.handleCancel).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{id:[0-9]+}/check-in", s.handleCheckIn).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{id:[0-9]+}/check-out", s.handleCheckOut).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{id:[0-9]+}/complete", s.handleComplete).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{id:[0-9]+}/dates", s.handleChangeDates).Methods(http.MethodPut)

	r.HandleFunc("/guests/{id:[0-9]+}/bookings", s.handleListGuestBookings).Methods(http.MethodGet)
	r.HandleFunc("/properties/{id:[0-9]+}/bookings", s.handleListPropertyBookings).Methods(http.MethodGet)

	r.HandleFunc("/properties/{id:[0-9]+}/calendar", s.handleGetCalendar).Methods(http.MethodGet)
	r.HandleFunc("/properties/{id:[0-9]+}/calendar/block", s.handleBlock).Methods(http.MethodPost)
	r.HandleFunc("/properties/{id:[0-9]+}/calendar/unblock", s.handleUnblock).Methods(http.MethodPost)
	r.HandleFunc("/properties/{id:[0-9]+}/calendar/pricing", s.handleSetPricing).Methods(http.MethodPut)

	r.HandleFunc("/policies", s.handleCreatePolicy).Methods(http.MethodPost)

	r.HandleFunc("/webhooks/payment-gateway", s.handleGatewayEvent).Methods(http.MethodPost)

	r.HandleFunc("/users/{id:[0-9]+}/notifications", s.handleListNotifications).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}/notifications/{noteId:[0-9]+}/read", s.handleMarkRead).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string      `json:"error"`
	Kind  domain.Kind `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case domain.KindValidation, domain.KindPolicyInconsistency:
		status = http.StatusBadRequest
	case domain.KindAvailability, domain.KindOverlap, domain.KindInvalidTransition, domain.KindRefundExceedsAmount:
		status = http.StatusConflict
	case domain.KindNotFound, domain.KindPaymentNotFound:
		status = http.StatusNotFound
	case domain.KindSystem:
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}
