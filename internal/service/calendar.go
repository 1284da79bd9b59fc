package service

import (
	"context"
	"fmt"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/utils"
)

type calendarService struct {
	availRepo    repository.AvailabilityRepository
	propertyRepo repository.PropertyRepository
}

func NewCalendarService(availRepo repository.AvailabilityRepository, propertyRepo repository.PropertyRepository) CalendarService {
	return &calendarService{availRepo: availRepo, propertyRepo: propertyRepo}
}

// GetRange merges stored records with fallback days so the result covers
// every date in [start, end). A date with no stored record is available at
// the property's base price and default stay bounds.
func (s *calendarService) GetRange(ctx context.Context, propertyID int64, start, end time.Time) ([]domain.AvailabilityDay, error) {
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	if !start.Before(end) {
		return nil, domain.NewValidationError("range start %s must be before end %s",
			utils.FormatDate(start), utils.FormatDate(end))
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	stored, err := s.availRepo.GetRange(ctx, propertyID, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]domain.AvailabilityDay, len(stored))
	for _, d := range stored {
		byDate[utils.DateOnly(d.Date)] = d
	}

	days := make([]domain.AvailabilityDay, 0, int(utils.NightsBetween(start, end)))
	for _, date := range utils.DatesIn(start, end) {
		if d, ok := byDate[date]; ok {
			days = append(days, d)
			continue
		}
		days = append(days, s.fallbackDay(property, date))
	}
	return days, nil
}

func (s *calendarService) fallbackDay(p *domain.Property, date time.Time) domain.AvailabilityDay {
	price := p.BasePriceCents
	return domain.AvailabilityDay{
		PropertyID:      p.ID,
		Date:            date,
		IsAvailable:     true,
		PriceCents:      &price,
		MinStay:         p.DefaultMinStay,
		MaxStay:         p.DefaultMaxStay,
		InstantBook:     false,
		CheckInAllowed:  true,
		CheckOutAllowed: true,
	}
}

func (s *calendarService) Block(ctx context.Context, propertyID int64, start, end time.Time, reason string) error {
	if err := s.validateRange(start, end); err != nil {
		return err
	}
	var blocked *string
	if reason != "" {
		blocked = &reason
	}
	return s.availRepo.SetAvailability(ctx, propertyID, utils.DateOnly(start), utils.DateOnly(end), false, blocked)
}

func (s *calendarService) Unblock(ctx context.Context, propertyID int64, start, end time.Time) error {
	if err := s.validateRange(start, end); err != nil {
		return err
	}
	return s.availRepo.SetAvailability(ctx, propertyID, utils.DateOnly(start), utils.DateOnly(end), true, nil)
}

func (s *calendarService) SetPricing(ctx context.Context, day *domain.AvailabilityDay) error {
	if err := day.Validate(); err != nil {
		return err
	}
	day.Date = utils.DateOnly(day.Date)
	return s.availRepo.Upsert(ctx, day)
}

func (s *calendarService) validateRange(start, end time.Time) error {
	if !utils.DateOnly(start).Before(utils.DateOnly(end)) {
		return domain.NewValidationError("range start %s must be before end %s",
			utils.FormatDate(start), utils.FormatDate(end))
	}
	return nil
}

func (s *calendarService) IsBookable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) error {
	return s.checkBookable(ctx, propertyID, checkIn, checkOut, false)
}

func (s *calendarService) IsInstantBookable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) error {
	return s.checkBookable(ctx, propertyID, checkIn, checkOut, true)
}

func (s *calendarService) checkBookable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, instant bool) error {
	days, err := s.GetRange(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return err
	}

	for _, d := range days {
		if !d.IsAvailable {
			reason := "blocked"
			if d.BlockedReason != nil && *d.BlockedReason != "" {
				reason = *d.BlockedReason
			}
			return domain.NewAvailabilityError(d.Date, reason)
		}
		if instant && !d.InstantBook {
			return domain.NewAvailabilityError(d.Date, "instant booking not enabled")
		}
	}

	// Stay length is judged against the check-in day's bounds.
	nights := utils.NightsBetween(checkIn, checkOut)
	first := days[0]
	if nights < first.MinStay {
		return domain.NewAvailabilityError(first.Date, fmt.Sprintf("stay of %d nights is below the minimum of %d", nights, first.MinStay))
	}
	if first.MaxStay > 0 && nights > first.MaxStay {
		return domain.NewAvailabilityError(first.Date, fmt.Sprintf("stay of %d nights exceeds the maximum of %d", nights, first.MaxStay))
	}
	return nil
}
