package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeMock     Type = "mock"
	TypeRazorpay Type = "razorpay"

	// MockPrefix is required on mock payment IDs.
	MockPrefix = "MOCK_"

	DefaultCurrencySymbol = "₹"
)

// Payment is a recorded payment as returned by the server.
type Payment struct {
	Message       string          `json:"message"`
	PaymentID     string          `json:"payment_id"`
	OrderID       string          `json:"order_id,omitempty"`
	Amount        float64         `json:"amount"`
	ReservationID int             `json:"reservation_id"`
	Timestamp     utils.Timestamp `json:"timestamp"`
	Status        string          `json:"status"`
}

// RazorpayPayment is the result of a completed checkout.
type RazorpayPayment struct {
	PaymentID     string  `json:"razorpay_payment_id"`
	OrderID       string  `json:"razorpay_order_id"`
	Signature     string  `json:"razorpay_signature"`
	Amount        float64 `json:"-"`
	ReservationID int     `json:"-"`
}

// Verification is the server's answer to a payment lookup.
type Verification struct {
	Verified  bool   `json:"verified"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// Order is a payment order created for a reservation. Amounts are in paise.
type Order struct {
	ID              string           `json:"id"`
	Entity          string           `json:"entity"`
	Amount          int64            `json:"amount"`
	AmountPaid      int64            `json:"amount_paid"`
	AmountDue       int64            `json:"amount_due"`
	Currency        string           `json:"currency"`
	Receipt         string           `json:"receipt"`
	Status          string           `json:"status"`
	Attempts        int              `json:"attempts"`
	CreatedAt       int64            `json:"created_at"`
	ReservationData OrderReservation `json:"reservation_data"`
}

type OrderReservation struct {
	ReservationID int             `json:"reservation_id"`
	SpotID        int             `json:"spot_id"`
	VehicleNumber string          `json:"vehicle_number"`
	ParkingTime   utils.Timestamp `json:"parking_time"`
	LeavingTime   utils.Timestamp `json:"leaving_time"`
	TotalCost     int64           `json:"total_cost"`
}

// CheckoutOptions configure a checkout.
type CheckoutOptions struct {
	Key         string `json:"key"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OrderID     string `json:"order_id"`
}

// Fee is the breakdown of an hourly charge.
type Fee struct {
	DurationHours float64 `json:"duration_hours"`
	BillingHours  int64   `json:"billing_hours"`
	HourlyRate    float64 `json:"hourly_rate"`
	TotalAmount   float64 `json:"total_amount"`
}

// CalculateFee bills every started hour at hourlyRate. Duration and total are
// rounded to two decimals.
func CalculateFee(durationHours, hourlyRate float64) Fee {
	duration := decimal.NewFromFloat(durationHours)
	billing := duration.Ceil()
	rate := decimal.NewFromFloat(hourlyRate)

	rounded, _ := duration.Round(2).Float64()
	total, _ := billing.Mul(rate).Round(2).Float64()
	return Fee{
		DurationHours: rounded,
		BillingHours:  billing.IntPart(),
		HourlyRate:    hourlyRate,
		TotalAmount:   total,
	}
}

// FormatCurrency renders amount with the rupee symbol and two decimals.
func FormatCurrency(amount float64) string {
	return FormatCurrencyWith(DefaultCurrencySymbol, amount)
}

func FormatCurrencyWith(symbol string, amount float64) string {
	return symbol + decimal.NewFromFloat(amount).StringFixed(2)
}

// GenerateMockPaymentID returns MOCK_<unix millis>_<9 random chars>.
func GenerateMockPaymentID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s%d_%s", MockPrefix, now.UnixMilli(), suffix)
}

// OpenRazorpayCheckout stands in for the hosted checkout and always
// succeeds, echoing the order ID.
func OpenRazorpayCheckout(opts CheckoutOptions, now time.Time) RazorpayPayment {
	return RazorpayPayment{
		PaymentID: fmt.Sprintf("pay_mock_%d", now.UnixMilli()),
		OrderID:   opts.OrderID,
		Signature: "mock_signature",
	}
}
