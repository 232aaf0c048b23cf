package backendfake

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/shopspring/decimal"
)

const mockPaymentPrefix = "MOCK_"

func (b *Backend) recordPayment(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	paymentID := strings.TrimSpace(utils.ToString(body["payment_id"]))
	amount, hasAmount := toFloat(body["amount"])
	resID := toInt(body["reservation_id"])
	paymentType := utils.ToString(body["payment_type"])
	if paymentType == "" {
		paymentType = "mock"
	}

	switch {
	case paymentID == "":
		writeMessage(w, http.StatusBadRequest, "payment_id is required!")
		return
	case !hasAmount:
		writeMessage(w, http.StatusBadRequest, "amount is required!")
		return
	case resID == 0:
		writeMessage(w, http.StatusBadRequest, "reservation_id is required!")
		return
	}

	p := &payment{
		PaymentID:     paymentID,
		Amount:        amount,
		ReservationID: resID,
		PaymentType:   paymentType,
		Status:        "completed",
		Timestamp:     b.nowFunc(),
	}
	message := "Payment processed successfully"

	switch paymentType {
	case "mock":
		if !strings.HasPrefix(paymentID, mockPaymentPrefix) {
			writeMessage(w, http.StatusBadRequest, "Invalid mock payment ID. Must start with MOCK_")
			return
		}
	case "razorpay":
		p.OrderID = utils.ToString(body["razorpay_order_id"])
		message = "Razorpay payment processed"
	default:
		writeMessage(w, http.StatusBadRequest, "Invalid payment_type")
		return
	}

	b.mu.Lock()
	b.payments[p.PaymentID] = p
	if res, ok := b.reservations[resID]; ok {
		res.PaymentStatus = true
		b.notifyLocked(res.UserID, "Payment Received", fmt.Sprintf("Payment of %.2f received for reservation %d", amount, resID))
	}
	b.mu.Unlock()

	out := map[string]any{
		"message":        message,
		"payment_id":     p.PaymentID,
		"amount":         p.Amount,
		"reservation_id": p.ReservationID,
		"timestamp":      isoformat(p.Timestamp),
		"status":         p.Status,
	}
	if p.OrderID != "" {
		out["order_id"] = p.OrderID
	}
	writeJSON(w, http.StatusOK, out)
}

// getPayment verifies a payment by payment_id or creates a mock order for a
// reservation_id.
func (b *Backend) getPayment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if resID := q.Get("reservation_id"); resID != "" {
		b.paymentOrder(w, atoi(resID))
		return
	}

	paymentID := q.Get("payment_id")
	if paymentID == "" {
		writeMessage(w, http.StatusBadRequest, "payment_id or reservation_id is required!")
		return
	}

	b.mu.RLock()
	_, recorded := b.payments[paymentID]
	b.mu.RUnlock()

	if recorded || strings.HasPrefix(paymentID, mockPaymentPrefix) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"verified":   true,
			"payment_id": paymentID,
			"status":     "verified",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  false,
		"verified": false,
		"message":  "Invalid payment ID",
	})
}

func (b *Backend) paymentOrder(w http.ResponseWriter, resID int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	res, ok := b.reservations[resID]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Reservation not found")
		return
	}

	now := b.nowFunc()
	end := now
	if res.EndTime != nil {
		end = *res.EndTime
	}
	paise := decimal.NewFromFloat(billedAmount(res.StartTime, end, res.PricePerHour)).Shift(2).IntPart()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":          "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10],
		"entity":      "order",
		"amount":      paise,
		"amount_paid": 0,
		"amount_due":  paise,
		"currency":    "INR",
		"receipt":     fmt.Sprintf("rcpt_%d", resID),
		"status":      "created",
		"attempts":    0,
		"created_at":  now.Unix(),
		"reservation_data": map[string]any{
			"reservation_id": res.ID,
			"spot_id":        res.SpotID,
			"vehicle_number": res.VehicleNumber,
			"parking_time":   isoformat(res.StartTime),
			"leaving_time":   isoformat(end),
			"total_cost":     paise,
		},
	})
}
