package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"

	"github.com/jrsteele09/wepark-client/auth"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/jrsteele09/wepark-client/lots"
	"github.com/jrsteele09/wepark-client/notifications"
	"github.com/jrsteele09/wepark-client/payments"
	"github.com/jrsteele09/wepark-client/reservations"
	"github.com/jrsteele09/wepark-client/router"
	"github.com/jrsteele09/wepark-client/users"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps a service failure onto the response. A 401 from the
// backend means the cookie outlived the token, so the browser is sent to log
// in again.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.IsUnauthorized(err) {
		http.Redirect(w, r, router.RouteLogin, http.StatusSeeOther)
		return
	}
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.Status, apiErr.Message)
		return
	}
	log.Err(err).Str("request_id", RequestID(r.Context())).Str("path", r.URL.Path).Msg("page handler failed")
	writeError(w, http.StatusBadGateway, err.Error())
}

func (s *Server) currency(amount float64) string {
	return payments.FormatCurrencyWith(s.config.GetCurrencySymbol(), amount)
}

func (s *Server) apiURL(r *http.Request, endpoint string) string {
	u := url.URL{Scheme: getScheme(r), Host: r.Host, Path: s.config.GetAPIBasePath() + "/" + endpoint}
	return u.String()
}

// IndexHandler describes the app and the caller's session.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		data := map[string]any{
			"app_name": s.config.GetAppName(),
			"session":  newSessionView(session),
			"api_base": s.apiURL(r, ""),
		}
		if session.Resolved() {
			data["dashboard"] = router.DashboardFor(session.Role)
		} else {
			data["links"] = []linkView{{Name: "login", Path: router.RouteLogin}, {Name: "signup", Path: router.RouteSignup}}
		}
		writeJSON(w, http.StatusOK, data)
	}
}

func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, formView{
			Title:  "Login",
			Action: s.apiURL(r, "login"),
			Method: http.MethodPost,
			Fields: []formField{
				{Name: "user_or_mail", Label: "Username or Email", Type: "text", Required: true},
				{Name: "password", Label: "Password", Type: "password", Required: true},
			},
			Links: []linkView{{Name: "signup", Path: router.RouteSignup}},
		})
	}
}

func (s *Server) SignupPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, formView{
			Title:  "Sign up",
			Action: s.apiURL(r, "signup"),
			Method: http.MethodPost,
			Fields: []formField{
				{Name: "email", Label: "Email", Type: "email", Required: true},
				{Name: "username", Label: "Username", Type: "text", Required: true},
				{Name: "password", Label: "Password", Type: "password", Required: true, MinLength: auth.MinPasswordLength},
				{Name: "confirm_password", Label: "Confirm Password", Type: "password", Required: true, MinLength: auth.MinPasswordLength},
				{Name: "address", Label: "Address", Type: "text"},
				{Name: "pincode", Label: "Pincode", Type: "text"},
			},
			Links: []linkView{{Name: "login", Path: router.RouteLogin}},
		})
	}
}

// DashboardHandler sends the caller to their role's landing page.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		http.Redirect(w, r, router.DashboardFor(session.Role), http.StatusSeeOther)
	}
}

func (s *Server) lotRows(list []lots.Lot) []lotView {
	rows := make([]lotView, 0, len(list))
	for i := range list {
		l := &list[i]
		rows = append(rows, lotView{
			Lot:           *l,
			Available:     len(lots.AvailableSpots(l)),
			Occupied:      len(lots.OccupiedSpots(l)),
			OccupancyRate: lots.OccupancyRate(l),
			Price:         s.currency(l.PricePerHour),
		})
	}
	return rows
}

func (s *Server) reservationRows(svc *reservations.Service, list []reservations.Reservation) []reservationView {
	rows := make([]reservationView, 0, len(list))
	for _, res := range list {
		cost := utils.ValueOr(res.ParkingCost, svc.Cost(res))
		rows = append(rows, reservationView{
			Reservation: res,
			Label:       reservations.StatusLabel(res.Status),
			Color:       reservations.StatusColor(res.Status),
			Duration:    svc.Duration(res),
			Cost:        cost,
			CostText:    s.currency(cost),
		})
	}
	return rows
}

// AdminSummaryHandler lists every lot with occupancy and overall totals.
func (s *Server) AdminSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		list, err := lots.New(c).FetchLots(r.Context(), lots.Filters{})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		rows := s.lotRows(list)
		var spots, occupied int
		for _, row := range rows {
			spots += len(row.Spots)
			occupied += row.Occupied
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"lots":           rows,
			"total_lots":     len(rows),
			"total_spots":    spots,
			"occupied_spots": occupied,
			"occupancy_rate": percent(occupied, spots),
		})
	}
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

// AdminLotsHandler lists lots for management, honouring the name, address
// and pincode query filters.
func (s *Server) AdminLotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		q := r.URL.Query()
		filters := lots.Filters{Name: q.Get("name"), Address: q.Get("address"), Pincode: q.Get("pincode")}
		list, err := lots.New(c).FetchLots(r.Context(), filters)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"lots":    s.lotRows(list),
			"filters": filters,
			"action":  s.apiURL(r, "lot"),
		})
	}
}

func (s *Server) AdminUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		list, err := users.New(c).FetchUsers(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"users": list,
			"count": len(list),
		})
	}
}

// AdminPaymentsHandler lists every reservation with its payment state and
// the revenue collected from completed ones.
func (s *Server) AdminPaymentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		svc := reservations.New(c, reservations.WithNowTime(s.nowTime))
		list, err := svc.FetchReservations(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		revenue := decimal.Zero
		for _, res := range list {
			if res.Status == reservations.StatusCompleted {
				revenue = revenue.Add(decimal.NewFromFloat(utils.Value(res.ParkingCost)))
			}
		}
		total, _ := revenue.Round(2).Float64()
		writeJSON(w, http.StatusOK, map[string]any{
			"payments":     s.reservationRows(svc, list),
			"revenue":      total,
			"revenue_text": s.currency(total),
		})
	}
}

// UserSummaryHandler shows the caller's active reservations with the cost
// accrued so far and their unread notification count.
func (s *Server) UserSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		svc := reservations.New(c, reservations.WithNowTime(s.nowTime))
		active, err := svc.FetchActiveReservations(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		unread, err := notifications.New(c).FetchUnreadNotifications(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session":             newSessionView(SessionFromContext(r.Context())),
			"active_reservations": s.reservationRows(svc, active),
			"unread":              len(unread),
		})
	}
}

// AvailableLotsHandler lists lots that still have a free spot. A q query
// parameter searches by name.
func (s *Server) AvailableLotsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		svc := lots.New(c)
		var list []lots.Lot
		if q := r.URL.Query().Get("q"); q != "" {
			list, err = svc.SearchLots(r.Context(), q)
		} else {
			list, err = svc.FetchLots(r.Context(), lots.Filters{})
		}
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		rows := make([]lotView, 0, len(list))
		for _, row := range s.lotRows(list) {
			if row.Available > 0 {
				rows = append(rows, row)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"lots":   rows,
			"action": s.apiURL(r, "reservation"),
		})
	}
}

func (s *Server) ParkingHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		svc := reservations.New(c, reservations.WithNowTime(s.nowTime))
		list, err := svc.FetchReservations(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"reservations": s.reservationRows(svc, list),
		})
	}
}

func (s *Server) NotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.apiClient(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		list, err := notifications.New(c).FetchNotifications(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		now := s.nowTime()
		rows := make([]notificationView, 0, len(list))
		unread := 0
		for _, n := range list {
			if !n.Read {
				unread++
			}
			rows = append(rows, notificationView{
				Notification: n,
				Icon:         notifications.Icon(n.Message),
				When:         notifications.FormatTime(n.Timestamp.Time, now),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"notifications": rows,
			"unread":        unread,
		})
	}
}

// RouteInfoHandler answers for a guarded path that has no view of its own.
func (s *Server) RouteInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route, _ := s.table.Match(r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"path":    r.URL.Path,
			"name":    route.Name,
			"session": newSessionView(SessionFromContext(r.Context())),
		})
	}
}

// RoutesHandler lists the guarded page paths.
func (s *Server) RoutesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"routes": s.table.Paths(),
		})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": s.backendURL})
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Page not found")
	}
}
