package backendfake

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/shopspring/decimal"
)

// billedAmount charges every started hour at the lot's rate.
func billedAmount(start, end time.Time, rate float64) float64 {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours = 0
	}
	billing := decimal.NewFromFloat(hours).Ceil()
	amount, _ := billing.Mul(decimal.NewFromFloat(rate)).Round(2).Float64()
	return amount
}

func (b *Backend) reservationView(res *reservation) map[string]any {
	view := map[string]any{
		"reservation_id": res.ID,
		"user_id":        res.UserID,
		"spot_id":        res.SpotID,
		"status":         res.Status,
		"start_time":     isoformat(res.StartTime),
		"parking_time":   isoformat(res.StartTime),
		"end_time":       isoformatPtr(res.EndTime),
		"parking_cost":   res.ParkingCost,
		"vehicle_number": res.VehicleNumber,
		"payment_status": res.PaymentStatus,
		"lot_name":       res.LotName,
		"price_per_hour": res.PricePerHour,
		"prime_location": "Unknown",
		"address":        "Unknown",
	}
	if s, ok := b.spots[res.SpotID]; ok {
		if l, ok := b.lots[s.LotID]; ok {
			view["prime_location"] = l.PrimeLocation
			view["address"] = l.Address
		}
	}
	end := b.nowFunc()
	if res.EndTime != nil {
		end = *res.EndTime
	}
	view["total_amount"] = billedAmount(res.StartTime, end, res.PricePerHour)
	return view
}

func (b *Backend) bookSpot(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	spotID := toInt(body["spot_id"])
	if spotID == 0 {
		writeMessage(w, http.StatusBadRequest, "spot_id is required!")
		return
	}
	vehicle := strings.TrimSpace(utils.ToString(body["vehicle_number"]))
	if vehicle == "" {
		vehicle = "Unknown"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	me, ok := b.currentUserLocked(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	s, ok := b.spots[spotID]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Spot not found")
		return
	}
	if s.Status == "occupied" {
		writeMessage(w, http.StatusBadRequest, "Spot is already occupied")
		return
	}
	l := b.lots[s.LotID]

	s.Status = "occupied"
	res := &reservation{
		ID:            b.newID(),
		UserID:        me.ID,
		SpotID:        s.ID,
		Status:        "active",
		StartTime:     b.nowFunc(),
		VehicleNumber: vehicle,
		LotName:       l.PrimeLocation,
		PricePerHour:  l.PricePerHour,
	}
	b.reservations[res.ID] = res
	b.notifyLocked(me.ID, "Spot Booked", fmt.Sprintf("You have booked spot %d at %s", s.ID, l.PrimeLocation))

	writeMessage(w, http.StatusOK, "Spot booked successfully!")
}

func (b *Backend) listReservations(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	b.mu.RLock()
	defer b.mu.RUnlock()

	me, ok := b.currentUserLocked(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	list := make([]*reservation, 0)
	for _, res := range b.reservations {
		if me.Role != "admin" && res.UserID != me.ID {
			continue
		}
		if activeOnly && res.Status != "active" {
			continue
		}
		list = append(list, res)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })

	out := make([]map[string]any, 0, len(list))
	for _, res := range list {
		out = append(out, b.reservationView(res))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) releaseReservation(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resID := toInt(body["reservation_id"])
	if resID == 0 {
		writeMessage(w, http.StatusBadRequest, "reservation_id is required!")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	me, ok := b.currentUserLocked(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	res, ok := b.reservations[resID]
	if !ok || (me.Role != "admin" && res.UserID != me.ID) {
		writeMessage(w, http.StatusBadRequest, "Reservation not found")
		return
	}
	if res.Status != "active" {
		writeMessage(w, http.StatusBadRequest, "Reservation already completed")
		return
	}

	end := b.nowFunc()
	total := billedAmount(res.StartTime, end, res.PricePerHour)
	res.EndTime = utils.Ptr(end)
	res.ParkingCost = utils.Ptr(total)
	res.Status = "completed"
	if strings.TrimSpace(utils.ToString(body["payment_id"])) != "" {
		res.PaymentStatus = true
	}
	if s, ok := b.spots[res.SpotID]; ok {
		s.Status = "available"
	}
	b.notifyLocked(res.UserID, "Spot Released", fmt.Sprintf("You have released spot %d. Total amount: %.2f", res.SpotID, total))

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Reservation completed successfully",
		"total_amount":   total,
		"reservation_id": res.ID,
	})
}
