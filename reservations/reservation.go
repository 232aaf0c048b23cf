package reservations

import (
	"time"

	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Reservation is a booking of a spot. EndTime is zero while active.
type Reservation struct {
	ID            int             `json:"reservation_id"`
	UserID        int             `json:"user_id"`
	SpotID        int             `json:"spot_id"`
	Status        Status          `json:"status"`
	StartTime     utils.Timestamp `json:"start_time"`
	EndTime       utils.Timestamp `json:"end_time"`
	ParkingCost   *float64        `json:"parking_cost"`
	TotalAmount   *float64        `json:"total_amount"`
	VehicleNumber string          `json:"vehicle_number"`
	PrimeLocation string          `json:"prime_location"`
	Address       string          `json:"address"`
	LotName       string          `json:"lot_name"`
	PricePerHour  float64         `json:"price_per_hour"`
	PaymentStatus bool            `json:"payment_status"`
}

// Release is the outcome of completing a reservation.
type Release struct {
	Message     string  `json:"message"`
	TotalAmount float64 `json:"total_amount"`
}

var (
	statusLabels = map[Status]string{
		StatusActive:    "Active",
		StatusCompleted: "Completed",
		StatusCancelled: "Cancelled",
	}
	statusColors = map[Status]string{
		StatusActive:    "success",
		StatusCompleted: "info",
		StatusCancelled: "danger",
	}
)

// StatusLabel is the display label for status; unknown values pass through.
func StatusLabel(status Status) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return string(status)
}

// StatusColor is the badge colour for status, "secondary" when unknown.
func StatusColor(status Status) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "secondary"
}

// CalculateDuration is the number of hours from start to end rounded to two
// decimals. A zero end means now.
func CalculateDuration(start, end, now time.Time) float64 {
	if end.IsZero() {
		end = now
	}
	hours, _ := decimal.NewFromFloat(end.Sub(start).Hours()).Round(2).Float64()
	return hours
}

// CalculateCost bills every started hour of the rounded duration at
// pricePerHour.
func CalculateCost(start time.Time, pricePerHour float64, end, now time.Time) float64 {
	billing := decimal.NewFromFloat(CalculateDuration(start, end, now)).Ceil()
	cost, _ := billing.Mul(decimal.NewFromFloat(pricePerHour)).Round(2).Float64()
	return cost
}
