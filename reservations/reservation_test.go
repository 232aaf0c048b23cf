package reservations_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/wepark-client/payments"
	"github.com/jrsteele09/wepark-client/reservations"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestCalculateDuration(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		now  time.Time
		want float64
	}{
		{name: "explicit end", end: start.Add(90 * time.Minute), want: 1.5},
		{name: "open reservation uses now", now: start.Add(20 * time.Minute), want: 0.33},
		{name: "same instant", end: start, want: 0},
		{name: "rounded to two decimals", end: start.Add(time.Hour + 30*time.Second), want: 1.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, reservations.CalculateDuration(start, tt.end, tt.now))
		})
	}
}

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		rate float64
		want float64
	}{
		{name: "partial hour billed as full", end: start.Add(72 * time.Minute), rate: 10, want: 20},
		{name: "exact hours", end: start.Add(3 * time.Hour), rate: 12.5, want: 37.5},
		{name: "zero duration", end: start, rate: 10, want: 0},
		{name: "sub-rounding overrun not billed", end: start.Add(time.Hour + 10*time.Second), rate: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, reservations.CalculateCost(start, tt.rate, tt.end, time.Time{}))
		})
	}
}

func TestCostAgreesWithFee(t *testing.T) {
	for _, minutes := range []int{0, 1, 59, 60, 61, 119, 600} {
		end := start.Add(time.Duration(minutes) * time.Minute)
		duration := reservations.CalculateDuration(start, end, time.Time{})
		fee := payments.CalculateFee(duration, 15)
		require.Equal(t, fee.TotalAmount, reservations.CalculateCost(start, 15, end, time.Time{}), "minutes=%d", minutes)
	}
}

func TestCostIsMonotonic(t *testing.T) {
	prev := 0.0
	for minutes := 0; minutes <= 300; minutes += 7 {
		cost := reservations.CalculateCost(start, 9.99, start.Add(time.Duration(minutes)*time.Minute), time.Time{})
		require.GreaterOrEqual(t, cost, prev)
		prev = cost
	}
}

func TestStatusLabelAndColor(t *testing.T) {
	tests := []struct {
		status reservations.Status
		label  string
		color  string
	}{
		{reservations.StatusActive, "Active", "success"},
		{reservations.StatusCompleted, "Completed", "info"},
		{reservations.StatusCancelled, "Cancelled", "danger"},
		{"pending", "pending", "secondary"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			require.Equal(t, tt.label, reservations.StatusLabel(tt.status))
			require.Equal(t, tt.color, reservations.StatusColor(tt.status))
		})
	}
}
