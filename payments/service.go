// Package payments records mock and Razorpay payments and provides fee
// arithmetic.
package payments

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/rs/zerolog/log"
)

const paymentEndpoint = "payment"

type Service struct {
	utils.OpState

	api            apiclient.Caller
	nowTime        func() time.Time
	currencySymbol string

	mu          sync.RWMutex
	lastPayment *Payment
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func WithCurrencySymbol(symbol string) ServiceOption {
	return func(s *Service) {
		if symbol != "" {
			s.currencySymbol = symbol
		}
	}
}

func New(api apiclient.Caller, opts ...ServiceOption) *Service {
	s := &Service{api: api, nowTime: time.Now, currencySymbol: DefaultCurrencySymbol}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Processing reports whether a payment call is in flight.
func (s *Service) Processing() bool {
	return s.Loading()
}

// LastPayment is the most recent successfully recorded payment, or nil.
func (s *Service) LastPayment() *Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPayment
}

func (s *Service) FormatCurrency(amount float64) string {
	return FormatCurrencyWith(s.currencySymbol, amount)
}

// ProcessMockPayment records a mock payment under a freshly generated ID.
func (s *Service) ProcessMockPayment(ctx context.Context, amount float64, reservationID int) (*Payment, error) {
	done := s.Begin()
	defer done()

	paymentID := GenerateMockPaymentID(s.nowTime())
	return s.record(ctx, map[string]any{
		"payment_id":     paymentID,
		"amount":         amount,
		"reservation_id": reservationID,
		"payment_type":   TypeMock,
	})
}

// ProcessRazorpayPayment records a completed checkout.
func (s *Service) ProcessRazorpayPayment(ctx context.Context, p RazorpayPayment) (*Payment, error) {
	done := s.Begin()
	defer done()

	return s.record(ctx, map[string]any{
		"payment_id":         p.PaymentID,
		"razorpay_order_id":  p.OrderID,
		"razorpay_signature": p.Signature,
		"amount":             p.Amount,
		"reservation_id":     p.ReservationID,
		"payment_type":       TypeRazorpay,
	})
}

func (s *Service) record(ctx context.Context, body map[string]any) (*Payment, error) {
	const fallback = "Payment processing failed"

	resp := s.api.Call(ctx, paymentEndpoint, http.MethodPost, body)
	if err := resp.Err(fallback); err != nil {
		log.Warn().Err(err).Interface("payment_id", body["payment_id"]).Msg("Payment rejected")
		return nil, s.Fail(err)
	}

	var p Payment
	if err := resp.Decode(&p); err != nil {
		return nil, s.Fail(errors.Wrapf(err, fallback))
	}

	s.mu.Lock()
	s.lastPayment = &p
	s.mu.Unlock()
	return &p, nil
}

// VerifyPayment looks up paymentID. An unknown ID is not an error; it comes
// back with Verified false.
func (s *Service) VerifyPayment(ctx context.Context, paymentID string) (*Verification, error) {
	const fallback = "Payment verification failed"

	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, apiclient.WithQuery(paymentEndpoint, url.Values{"payment_id": {paymentID}}), http.MethodGet, nil)
	if err := resp.Err(fallback); err != nil {
		return nil, s.Fail(err)
	}

	var v Verification
	if err := resp.Decode(&v); err != nil {
		return nil, s.Fail(errors.Wrapf(err, fallback))
	}
	return &v, nil
}

// FetchOrder creates a payment order for a reservation.
func (s *Service) FetchOrder(ctx context.Context, reservationID int) (*Order, error) {
	const fallback = "Failed to create payment order"

	done := s.Begin()
	defer done()

	endpoint := apiclient.WithQuery(paymentEndpoint, url.Values{"reservation_id": {strconv.Itoa(reservationID)}})
	resp := s.api.Call(ctx, endpoint, http.MethodGet, nil)
	if err := resp.Err(fallback); err != nil {
		return nil, s.Fail(err)
	}

	var o Order
	if err := resp.Decode(&o); err != nil {
		return nil, s.Fail(errors.Wrapf(err, fallback))
	}
	return &o, nil
}

// OpenRazorpayCheckout is the package function against the service clock.
func (s *Service) OpenRazorpayCheckout(opts CheckoutOptions) RazorpayPayment {
	log.Debug().Str("order_id", opts.OrderID).Int64("amount", opts.Amount).Msg("Razorpay checkout")
	return OpenRazorpayCheckout(opts, s.nowTime())
}

func (s *Service) GenerateMockPaymentID() string {
	return GenerateMockPaymentID(s.nowTime())
}
