package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("invalid %s: %v", name, err)
	}
	return id, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("%s must be a %s date: %v", field, domain.DateLayout, err)
	}
	return t, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("invalid request body: %v", err)
	}
	return nil
}

// pagination reads page/page_size query parameters with sane defaults.
func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

type reserveRequest struct {
	PropertyID       int64  `json:"property_id"`
	GuestID          int64  `json:"guest_id"`
	CheckInDate      string `json:"check_in_date"`
	CheckOutDate     string `json:"check_out_date"`
	GuestCount       int32  `json:"guest_count"`
	Adults           int32  `json:"adults"`
	Children         int32  `json:"children"`
	SpecialRequests  string `json:"special_requests"`
	ServiceFeeBps    int32  `json:"service_fee_bps"`
	CleaningFeeCents int64  `json:"cleaning_fee_cents"`
	TaxRateBps       int32  `json:"tax_rate_bps"`
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	checkIn, err := parseDate("check_in_date", req.CheckInDate)
	if err != nil {
		writeError(w, err)
		return
	}
	checkOut, err := parseDate("check_out_date", req.CheckOutDate)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := s.reservations.Reserve(r.Context(), service.ReservationRequest{
		PropertyID:       req.PropertyID,
		GuestID:          req.GuestID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		GuestCount:       req.GuestCount,
		Adults:           req.Adults,
		Children:         req.Children,
		SpecialRequests:  req.SpecialRequests,
		ServiceFeeBps:    req.ServiceFeeBps,
		CleaningFeeCents: req.CleaningFeeCents,
		TaxRateBps:       req.TaxRateBps,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := s.bookings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.bookings.Confirm)
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.bookings.CheckIn)
}

func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.bookings.CheckOut)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.bookings.Complete)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (*domain.Booking, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type cancelResponse struct {
	Booking     *domain.Booking `json:"booking"`
	RefundCents int64           `json:"refund_cents"`
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	booking, refundCents, err := s.bookings.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelResponse{Booking: booking, RefundCents: refundCents})
}

type changeDatesRequest struct {
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

func (s *Server) handleChangeDates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req changeDatesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	checkIn, err := parseDate("check_in_date", req.CheckInDate)
	if err != nil {
		writeError(w, err)
		return
	}
	checkOut, err := parseDate("check_out_date", req.CheckOutDate)
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := s.reservations.ChangeDates(r.Context(), id, checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type bookingListResponse struct {
	Bookings   []domain.Booking `json:"bookings"`
	TotalCount int32            `json:"total_count"`
	Page       int32            `json:"page"`
	PageSize   int32            `json:"page_size"`
}

func (s *Server) handleListGuestBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)
	bookings, total, err := s.bookings.ListByGuest(r.Context(), id, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: bookings, TotalCount: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleListPropertyBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)
	bookings, total, err := s.bookings.ListByProperty(r.Context(), id, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: bookings, TotalCount: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := parseDate("start", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate("end", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	days, err := s.calendar.GetRange(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

type blockRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	s.handleBlockChange(w, r, true)
}

func (s *Server) handleUnblock(w http.ResponseWriter, r *http.Request) {
	s.handleBlockChange(w, r, false)
}

func (s *Server) handleBlockChange(w http.ResponseWriter, r *http.Request, block bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req blockRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	if block {
		err = s.calendar.Block(r.Context(), id, start, end, req.Reason)
	} else {
		err = s.calendar.Unblock(r.Context(), id, start, end)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pricingRequest struct {
	Date            string `json:"date"`
	IsAvailable     bool   `json:"is_available"`
	PriceCents      *int64 `json:"price_cents"`
	MinStay         int32  `json:"min_stay"`
	MaxStay         int32  `json:"max_stay"`
	InstantBook     bool   `json:"instant_book"`
	CheckInAllowed  bool   `json:"check_in_allowed"`
	CheckOutAllowed bool   `json:"check_out_allowed"`
}

func (s *Server) handleSetPricing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req pricingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	day := &domain.AvailabilityDay{
		PropertyID:      id,
		Date:            date,
		IsAvailable:     req.IsAvailable,
		PriceCents:      req.PriceCents,
		MinStay:         req.MinStay,
		MaxStay:         req.MaxStay,
		InstantBook:     req.InstantBook,
		CheckInAllowed:  req.CheckInAllowed,
		CheckOutAllowed: req.CheckOutAllowed,
	}
	if err := s.calendar.SetPricing(r.Context(), day); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	var policy domain.CancellationPolicy
	if err := decodeBody(r, &policy); err != nil {
		writeError(w, err)
		return
	}
	if err := s.policies.CreatePolicy(r.Context(), &policy); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, policy)
}

type gatewayEventRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id"`
	Status           string `json:"status"`
	FailureReason    string `json:"failure_reason"`
}

// handleGatewayEvent ingests a payment gateway webhook. Duplicate and stale
// events are acknowledged with 200 so the gateway stops retrying.
func (s *Server) handleGatewayEvent(w http.ResponseWriter, r *http.Request) {
	var req gatewayEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	payment, err := s.payments.ApplyGatewayEvent(r.Context(), req.GatewayPaymentID,
		domain.PaymentStatus(req.Status), req.FailureReason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

type notificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	TotalCount    int32                 `json:"total_count"`
	Page          int32                 `json:"page"`
	PageSize      int32                 `json:"page_size"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)
	notes, total, err := s.notifications.GetNotifications(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationListResponse{Notifications: notes, TotalCount: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	noteID, err := pathID(r, "noteId")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.notifications.MarkAsRead(r.Context(), userID, noteID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
