// Package lots manages parking lots: listing, lookup, admin CRUD and
// occupancy helpers.
package lots

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/rs/zerolog/log"
)

const lotEndpoint = "lot"

// Service caches the last fetched lot list and lot.
type Service struct {
	utils.OpState

	api     apiclient.Caller
	mu      sync.RWMutex
	lots    []Lot
	current *Lot
}

func New(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// Lots returns the cached list from the last successful FetchLots.
func (s *Service) Lots() []Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Lot(nil), s.lots...)
}

// CurrentLot returns the last lot fetched by ID, or nil.
func (s *Service) CurrentLot() *Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lots)
}

func (s *Service) HasLots() bool {
	return s.Count() > 0
}

// FetchLots lists lots matching filters and replaces the cached list.
func (s *Service) FetchLots(ctx context.Context, f Filters) ([]Lot, error) {
	done := s.Begin()
	defer done()
	return s.fetchLots(ctx, f)
}

func (s *Service) fetchLots(ctx context.Context, f Filters) ([]Lot, error) {
	endpoint := apiclient.WithQuery(lotEndpoint, url.Values{
		"name":    {f.Name},
		"pincode": {f.Pincode},
		"address": {f.Address},
	})

	resp := s.api.Call(ctx, endpoint, http.MethodGet, nil)
	if err := resp.Err("Failed to fetch lots"); err != nil {
		return nil, s.Fail(err)
	}

	var lots []Lot
	if err := resp.Decode(&lots); err != nil {
		return nil, s.Fail(errors.Wrapf(err, "Failed to fetch lots"))
	}

	s.mu.Lock()
	s.lots = lots
	s.mu.Unlock()
	return lots, nil
}

// SearchLots fetches lots whose name matches query.
func (s *Service) SearchLots(ctx context.Context, query string) ([]Lot, error) {
	return s.FetchLots(ctx, Filters{Name: query})
}

// FetchLotByID loads one lot and makes it the current lot.
func (s *Service) FetchLotByID(ctx context.Context, id int) (*Lot, error) {
	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, lotPath(id), http.MethodGet, nil)
	if err := resp.Err("Failed to fetch lot"); err != nil {
		return nil, s.Fail(err)
	}

	var lot Lot
	if err := resp.Decode(&lot); err != nil {
		return nil, s.Fail(errors.Wrapf(err, "Failed to fetch lot"))
	}

	s.mu.Lock()
	s.current = &lot
	s.mu.Unlock()
	return &lot, nil
}

// CreateLot adds a lot and refreshes the list. It returns the server message.
func (s *Service) CreateLot(ctx context.Context, in LotInput) (string, error) {
	return s.mutate(ctx, lotEndpoint, http.MethodPost, in, "Failed to create lot")
}

// UpdateLot changes a lot and refreshes the list.
func (s *Service) UpdateLot(ctx context.Context, id int, in LotInput) (string, error) {
	return s.mutate(ctx, lotPath(id), http.MethodPut, in, "Failed to update lot")
}

// DeleteLot removes a lot and refreshes the list. Lots with occupied spots
// are refused by the server.
func (s *Service) DeleteLot(ctx context.Context, id int) (string, error) {
	return s.mutate(ctx, lotPath(id), http.MethodDelete, nil, "Failed to delete lot")
}

func (s *Service) mutate(ctx context.Context, endpoint, method string, body any, fallback string) (string, error) {
	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, endpoint, method, body)
	if err := resp.Err(fallback); err != nil {
		return "", s.Fail(err)
	}

	// The write stands even if the refresh fails; Err() keeps the refresh error.
	if _, err := s.fetchLots(ctx, Filters{}); err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("lots refresh failed")
	}
	return resp.Message(""), nil
}

func lotPath(id int) string {
	return lotEndpoint + "/" + strconv.Itoa(id)
}
