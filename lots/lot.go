package lots

import (
	"encoding/json"
	"math"
)

// SpotStatus is the availability of a spot.
type SpotStatus string

const (
	SpotAvailable SpotStatus = "available"
	SpotOccupied  SpotStatus = "occupied"
)

// UnmarshalJSON accepts the string form and the legacy boolean form, where
// true means available.
func (s *SpotStatus) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var available bool
	if err := json.Unmarshal(b, &available); err == nil {
		if available {
			*s = SpotAvailable
		} else {
			*s = SpotOccupied
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = SpotStatus(str)
	return nil
}

type Spot struct {
	ID     int        `json:"spot_id"`
	Status SpotStatus `json:"status"`
}

// Lot is a parking facility and its spots.
type Lot struct {
	ID            int     `json:"lot_id"`
	PrimeLocation string  `json:"prime_location"`
	PricePerHour  float64 `json:"price_per_hour"`
	Address       string  `json:"address"`
	Pincode       string  `json:"pincode"`
	NoOfSpots     int     `json:"no_of_spots"`
	Spots         []Spot  `json:"spots"`
}

// Filters narrow FetchLots. Empty fields are not sent.
type Filters struct {
	Name    string
	Pincode string
	Address string
}

// LotInput is the body of create and update requests.
type LotInput struct {
	PrimeLocation string  `json:"prime_location"`
	PricePerHour  float64 `json:"price_per_hour"`
	Address       string  `json:"address"`
	Pincode       string  `json:"pincode"`
	NoOfSpots     int     `json:"no_of_spots,omitempty"`
}

func spotsWith(l *Lot, status SpotStatus) []Spot {
	if l == nil {
		return nil
	}
	out := make([]Spot, 0, len(l.Spots))
	for _, s := range l.Spots {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// AvailableSpots returns the lot's available spots. A nil lot has none.
func AvailableSpots(l *Lot) []Spot {
	return spotsWith(l, SpotAvailable)
}

// OccupiedSpots returns the lot's occupied spots. A nil lot has none.
func OccupiedSpots(l *Lot) []Spot {
	return spotsWith(l, SpotOccupied)
}

// OccupancyRate is the rounded percentage of occupied spots, 0 for a lot
// without spots.
func OccupancyRate(l *Lot) int {
	if l == nil || len(l.Spots) == 0 {
		return 0
	}
	return int(math.Round(float64(len(OccupiedSpots(l))) / float64(len(l.Spots)) * 100))
}
