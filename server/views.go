package server

import (
	"github.com/jrsteele09/wepark-client/lots"
	"github.com/jrsteele09/wepark-client/notifications"
	"github.com/jrsteele09/wepark-client/reservations"
	"github.com/jrsteele09/wepark-client/sessions"
)

type sessionView struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	ID       string `json:"id,omitempty"`
}

func newSessionView(s sessions.Session) *sessionView {
	if !s.Resolved() {
		return nil
	}
	return &sessionView{Username: s.Username, Role: s.Role, ID: s.ID}
}

type formField struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	MinLength int    `json:"min_length,omitempty"`
}

type formView struct {
	Title  string      `json:"title"`
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []formField `json:"fields"`
	Links  []linkView  `json:"links,omitempty"`
}

type linkView struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type lotView struct {
	lots.Lot
	Available     int    `json:"available"`
	Occupied      int    `json:"occupied"`
	OccupancyRate int    `json:"occupancy_rate"`
	Price         string `json:"price"`
}

type reservationView struct {
	reservations.Reservation
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	Duration float64 `json:"duration_hours"`
	Cost     float64 `json:"cost"`
	CostText string  `json:"cost_text"`
}

type notificationView struct {
	notifications.Notification
	Icon string `json:"icon"`
	When string `json:"when"`
}
