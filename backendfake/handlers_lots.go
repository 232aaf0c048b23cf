package backendfake

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/wepark-client/internal/utils"
)

func lotView(l *lot) map[string]any {
	spots := make([]map[string]any, 0, len(l.Spots))
	for _, s := range l.Spots {
		spots = append(spots, map[string]any{"spot_id": s.ID, "status": s.Status})
	}
	return map[string]any{
		"lot_id":         l.ID,
		"prime_location": l.PrimeLocation,
		"price_per_hour": l.PricePerHour,
		"address":        l.Address,
		"pincode":        l.Pincode,
		"no_of_spots":    l.NoOfSpots,
		"spots":          spots,
	}
}

func (b *Backend) listLots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, pincode, address := q.Get("name"), q.Get("pincode"), q.Get("address")

	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]int, 0, len(b.lots))
	for id := range b.lots {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		l := b.lots[id]
		if name != "" && !utils.ContainsFold(l.PrimeLocation, name) {
			continue
		}
		if pincode != "" && l.Pincode != pincode {
			continue
		}
		if address != "" && !utils.ContainsFold(l.Address, address) {
			continue
		}
		out = append(out, lotView(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getLot(w http.ResponseWriter, r *http.Request) {
	id := atoi(mux.Vars(r)["id"])

	b.mu.RLock()
	defer b.mu.RUnlock()

	l, ok := b.lots[id]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Parking Lot not found")
		return
	}
	writeJSON(w, http.StatusOK, lotView(l))
}

type lotInput struct {
	primeLocation string
	address       string
	pincode       string
	pricePerHour  float64
	noOfSpots     int
}

// parseLotInput validates a lot body. Missing fields produce the message
// "<field> is required!". Updates may omit no_of_spots.
func parseLotInput(body map[string]any, requireSpots bool) (lotInput, string) {
	in := lotInput{
		primeLocation: strings.TrimSpace(utils.ToString(body["prime_location"])),
		address:       strings.TrimSpace(utils.ToString(body["address"])),
		pincode:       strings.TrimSpace(utils.ToString(body["pincode"])),
		noOfSpots:     toInt(body["no_of_spots"]),
	}
	price, ok := toFloat(body["price_per_hour"])
	in.pricePerHour = price

	switch {
	case in.primeLocation == "":
		return in, "prime_location is required!"
	case !ok || price <= 0:
		return in, "price_per_hour is required!"
	case in.address == "":
		return in, "address is required!"
	case in.pincode == "":
		return in, "pincode is required!"
	case requireSpots && in.noOfSpots <= 0:
		return in, "no_of_spots is required!"
	}
	return in, ""
}

func (b *Backend) createLot(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in, msg := parseLotInput(body, true)
	if msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	b.mu.Lock()
	b.createLotLocked(in.primeLocation, in.address, in.pincode, in.pricePerHour, in.noOfSpots)
	b.mu.Unlock()

	writeMessage(w, http.StatusCreated, "Parking Lot added successfully!")
}

func (b *Backend) updateLot(w http.ResponseWriter, r *http.Request) {
	id := atoi(mux.Vars(r)["id"])
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in, msg := parseLotInput(body, false)
	if msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.lots[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Parking Lot not found")
		return
	}

	if in.noOfSpots <= 0 {
		in.noOfSpots = len(l.Spots)
	}
	occupied := 0
	for _, s := range l.Spots {
		if s.Status == "occupied" {
			occupied++
		}
	}
	if in.noOfSpots < occupied {
		writeMessage(w, http.StatusBadRequest, "Cannot reduce spots below the number of occupied spots!")
		return
	}

	l.PrimeLocation = in.primeLocation
	l.Address = in.address
	l.Pincode = in.pincode
	l.PricePerHour = in.pricePerHour
	b.resizeLotLocked(l, in.noOfSpots)

	writeMessage(w, http.StatusOK, "Parking Lot updated successfully!")
}

// resizeLotLocked grows the lot with available spots or removes available
// spots from the end until it holds n.
func (b *Backend) resizeLotLocked(l *lot, n int) {
	for len(l.Spots) < n {
		s := &spot{ID: b.newID(), LotID: l.ID, Status: "available"}
		b.spots[s.ID] = s
		l.Spots = append(l.Spots, s)
	}
	for i := len(l.Spots) - 1; i >= 0 && len(l.Spots) > n; i-- {
		if l.Spots[i].Status != "available" {
			continue
		}
		delete(b.spots, l.Spots[i].ID)
		l.Spots = append(l.Spots[:i], l.Spots[i+1:]...)
	}
	l.NoOfSpots = len(l.Spots)
}

func (b *Backend) deleteLot(w http.ResponseWriter, r *http.Request) {
	id := atoi(mux.Vars(r)["id"])

	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.lots[id]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Parking Lot not found")
		return
	}
	for _, s := range l.Spots {
		if s.Status == "occupied" {
			writeMessage(w, http.StatusBadRequest, "This Parking Lot cannot be deleted. One or more spots are occupied!")
			return
		}
	}
	for _, s := range l.Spots {
		delete(b.spots, s.ID)
	}
	delete(b.lots, id)

	writeMessage(w, http.StatusOK, "Parking lot deleted successfully!")
}
