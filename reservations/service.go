// Package reservations books and releases spots and lists a user's
// reservations.
package reservations

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/rs/zerolog/log"
)

const (
	spotEndpoint        = "spot"
	reservationEndpoint = "reservation"
)

type Service struct {
	utils.OpState

	api     apiclient.Caller
	nowTime func() time.Time

	mu           sync.RWMutex
	reservations []Reservation
	active       []Reservation
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func New(api apiclient.Caller, opts ...ServiceOption) *Service {
	s := &Service{api: api, nowTime: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Reservations() []Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Reservation(nil), s.reservations...)
}

func (s *Service) ActiveReservations() []Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Reservation(nil), s.active...)
}

func (s *Service) HasReservations() bool {
	return s.ReservationCount() > 0
}

func (s *Service) HasActiveReservations() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active) > 0
}

func (s *Service) ReservationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reservations)
}

// BookSpot reserves spotID and refreshes the active reservations.
func (s *Service) BookSpot(ctx context.Context, spotID int) (string, error) {
	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, spotEndpoint, http.MethodPost, map[string]int{"spot_id": spotID})
	if err := resp.Err("Failed to book spot"); err != nil {
		return "", s.Fail(err)
	}
	s.refresh(ctx, "book spot")
	return resp.Message(""), nil
}

// ReleaseSpot completes a reservation. paymentID may be empty.
func (s *Service) ReleaseSpot(ctx context.Context, reservationID int, paymentID string) (*Release, error) {
	done := s.Begin()
	defer done()

	body := map[string]any{"reservation_id": reservationID, "payment_id": nil}
	if paymentID != "" {
		body["payment_id"] = paymentID
	}

	resp := s.api.Call(ctx, reservationEndpoint, http.MethodPost, body)
	if err := resp.Err("Failed to release spot"); err != nil {
		return nil, s.Fail(err)
	}

	var release Release
	if err := resp.Decode(&release); err != nil {
		return nil, s.Fail(errors.Wrapf(err, "Failed to release spot"))
	}
	s.refresh(ctx, "release spot")
	return &release, nil
}

// FetchReservations lists every reservation visible to the caller.
func (s *Service) FetchReservations(ctx context.Context) ([]Reservation, error) {
	done := s.Begin()
	defer done()
	return s.fetch(ctx, false)
}

// FetchActiveReservations lists reservations that have not been released.
func (s *Service) FetchActiveReservations(ctx context.Context) ([]Reservation, error) {
	done := s.Begin()
	defer done()
	return s.fetch(ctx, true)
}

// refresh reloads the active reservations after a write the server has
// already accepted. A failure is left in Err() and does not undo the write.
func (s *Service) refresh(ctx context.Context, op string) {
	if _, err := s.fetch(ctx, true); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("reservations refresh failed")
	}
}

func (s *Service) fetch(ctx context.Context, activeOnly bool) ([]Reservation, error) {
	endpoint, fallback := reservationEndpoint, "Failed to fetch reservations"
	if activeOnly {
		endpoint, fallback = reservationEndpoint+"?active=true", "Failed to fetch active reservations"
	}

	resp := s.api.Call(ctx, endpoint, http.MethodGet, nil)
	if err := resp.Err(fallback); err != nil {
		return nil, s.Fail(err)
	}

	var list []Reservation
	if err := resp.Decode(&list); err != nil {
		return nil, s.Fail(errors.Wrapf(err, "%s", fallback))
	}

	s.mu.Lock()
	if activeOnly {
		s.active = list
	} else {
		s.reservations = list
	}
	s.mu.Unlock()
	return list, nil
}

// Duration is CalculateDuration for r against the service clock.
func (s *Service) Duration(r Reservation) float64 {
	return CalculateDuration(r.StartTime.Time, r.EndTime.Time, s.nowTime())
}

// Cost is CalculateCost for r at its lot's hourly rate.
func (s *Service) Cost(r Reservation) float64 {
	return CalculateCost(r.StartTime.Time, r.PricePerHour, r.EndTime.Time, s.nowTime())
}
