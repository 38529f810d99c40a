package service

import (
	"context"
	"fmt"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/repo/postgres"
)

type AvailabilityService interface {
	Config(ctx context.Context) (*domain.BookingConfig, error)
	Taken(ctx context.Context, dateISO string) (*domain.Availability, error)
}

type availabilityService struct {
	settings postgres.SettingsRepo
	bookings postgres.BookingRepo
}

func NewAvailabilityService(settings postgres.SettingsRepo, bookings postgres.BookingRepo) AvailabilityService {
	return &availabilityService{settings: settings, bookings: bookings}
}

func (s *availabilityService) Config(ctx context.Context) (*domain.BookingConfig, error) {
	cfg, err := s.settings.GetBookingConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load booking config: %w", err)
	}
	return cfg, nil
}

// Taken lists the unavailable slots for dateISO. A blocked date reports
// every configured slot. The date string is compared as-is.
func (s *availabilityService) Taken(ctx context.Context, dateISO string) (*domain.Availability, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.IsBlocked(dateISO) {
		return &domain.Availability{Taken: cfg.TimeSlots}, nil
	}

	taken, err := s.bookings.TakenTimes(ctx, dateISO)
	if err != nil {
		return nil, fmt.Errorf("load taken slots: %w", err)
	}
	return &domain.Availability{Taken: taken}, nil
}
