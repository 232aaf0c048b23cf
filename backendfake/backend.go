// Package backendfake is an in-memory implementation of the parking REST
// backend. It serves the same endpoints and JSON shapes as the real backend
// and is used by tests and by the gateway in DEV mode.
package backendfake

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/wepark-client/internal/config"
	"github.com/jrsteele09/wepark-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ctxClaims contextKey = "claims"

	accessTokenExpiry = 24 * time.Hour
)

type user struct {
	ID           int    `json:"user_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Address      string `json:"address"`
	Pincode      string `json:"pincode"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

type spot struct {
	ID     int    `json:"spot_id"`
	LotID  int    `json:"-"`
	Status string `json:"status"`
}

type lot struct {
	ID            int     `json:"lot_id"`
	PrimeLocation string  `json:"prime_location"`
	PricePerHour  float64 `json:"price_per_hour"`
	Address       string  `json:"address"`
	Pincode       string  `json:"pincode"`
	NoOfSpots     int     `json:"no_of_spots"`
	Spots         []*spot `json:"spots"`
}

type reservation struct {
	ID            int
	UserID        int
	SpotID        int
	Status        string
	StartTime     time.Time
	EndTime       *time.Time
	ParkingCost   *float64
	VehicleNumber string
	PaymentStatus bool
	LotName       string
	PricePerHour  float64
}

type notification struct {
	ID        int
	UserID    int
	Title     string
	Message   string
	Read      bool
	Timestamp time.Time
}

type payment struct {
	PaymentID     string
	OrderID       string
	Amount        float64
	ReservationID int
	PaymentType   string
	Status        string
	Timestamp     time.Time
}

// Backend is the in-memory REST backend.
type Backend struct {
	mu            sync.RWMutex
	router        *mux.Router
	creator       *token.Creator
	cookieName    string
	nowFunc       func() time.Time
	nextID        int
	users         map[string]*user // keyed by username
	lots          map[int]*lot
	spots         map[int]*spot
	reservations  map[int]*reservation
	notifications map[int]*notification
	payments      map[string]*payment
}

// Option defines a function type to modify the Backend instance.
type Option func(*Backend)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(b *Backend) {
		b.nowFunc = nowFunc
	}
}

// WithSecret sets the HS256 signing secret.
func WithSecret(secret string) Option {
	return func(b *Backend) {
		b.creator = token.NewCreator(secret, accessTokenExpiry)
	}
}

// WithAdmin seeds an admin account.
func WithAdmin(username, password string) Option {
	return func(b *Backend) {
		if err := b.addUser(username, username+"@wepark.local", password, "admin", "", ""); err != nil {
			log.Err(err).Msg("backendfake: failed to seed admin")
		}
	}
}

// New creates a Backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		creator:       token.NewCreator("backendfake-secret", accessTokenExpiry),
		cookieName:    config.DefaultAccessTokenCookie,
		nowFunc:       time.Now,
		users:         make(map[string]*user),
		lots:          make(map[int]*lot),
		spots:         make(map[int]*spot),
		reservations:  make(map[int]*reservation),
		notifications: make(map[int]*notification),
		payments:      make(map[string]*payment),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.initRoutes()
	return b
}

// NewFromConfig builds a Backend from the fake backend configuration.
func NewFromConfig(c config.FakeBackendConfig) *Backend {
	return New(WithSecret(c.GetFakeBackendSecret()), WithAdmin(c.GetFakeAdminUser(), c.GetFakeAdminPassword()))
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

func (b *Backend) initRoutes() {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/login", b.login).Methods(http.MethodPost)
	api.HandleFunc("/signup", b.signup).Methods(http.MethodPost)
	api.HandleFunc("/logout", b.logout).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(b.requireJWT)

	protected.HandleFunc("/lot", b.listLots).Methods(http.MethodGet)
	protected.HandleFunc("/lot", b.requireRole("admin", b.createLot)).Methods(http.MethodPost)
	protected.HandleFunc("/lot/{id:[0-9]+}", b.getLot).Methods(http.MethodGet)
	protected.HandleFunc("/lot/{id:[0-9]+}", b.requireRole("admin", b.updateLot)).Methods(http.MethodPut)
	protected.HandleFunc("/lot/{id:[0-9]+}", b.requireRole("admin", b.deleteLot)).Methods(http.MethodDelete)

	protected.HandleFunc("/spot", b.bookSpot).Methods(http.MethodPost)

	protected.HandleFunc("/reservation", b.listReservations).Methods(http.MethodGet)
	protected.HandleFunc("/reservation", b.releaseReservation).Methods(http.MethodPost)

	protected.HandleFunc("/notification", b.listNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notification", b.markNotifications).Methods(http.MethodPost)
	protected.HandleFunc("/notification/{id:[0-9]+}", b.deleteNotification).Methods(http.MethodDelete)

	protected.HandleFunc("/payment", b.recordPayment).Methods(http.MethodPost)
	protected.HandleFunc("/payment", b.getPayment).Methods(http.MethodGet)

	protected.HandleFunc("/user", b.listUsers).Methods(http.MethodGet)
	protected.HandleFunc("/user/{id:[0-9]+}", b.getUser).Methods(http.MethodGet)

	b.router = r
}

// AddUser registers a user account directly.
func (b *Backend) AddUser(username, email, password, role string) error {
	return b.addUser(username, email, password, role, "", "")
}

// CreateLot adds a lot with n available spots and returns its ID.
func (b *Backend) CreateLot(primeLocation, address, pincode string, pricePerHour float64, n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createLotLocked(primeLocation, address, pincode, pricePerHour, n)
}

// SpotStatus returns the status of spotID and whether it exists.
func (b *Backend) SpotStatus(spotID int) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.spots[spotID]
	if !ok {
		return "", false
	}
	return s.Status, true
}

// Notify adds a notification for username.
func (b *Backend) Notify(username, title, message string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[username]
	if !ok {
		return errors.Errorf("user %s not found", username)
	}
	b.notifyLocked(u.ID, title, message)
	return nil
}

// IssueToken signs an access token for an existing user.
func (b *Backend) IssueToken(username string) (string, error) {
	b.mu.RLock()
	u, ok := b.users[username]
	b.mu.RUnlock()
	if !ok {
		return "", errors.New("not found")
	}
	return b.creator.CreateAccessToken(u.Username, u.Role, itoa(u.ID))
}

// CookieName is the access token cookie the backend sets.
func (b *Backend) CookieName() string {
	return b.cookieName
}

func (b *Backend) addUser(username, email, password, role, address, pincode string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[username]; exists {
		return errors.New("username already exists")
	}
	for _, u := range b.users {
		if u.Email == email {
			return errors.New("email already exists")
		}
	}
	b.users[username] = &user{
		ID:           b.newID(),
		Email:        email,
		Username:     username,
		Address:      address,
		Pincode:      pincode,
		Role:         role,
		PasswordHash: string(hash),
	}
	return nil
}

func (b *Backend) createLotLocked(primeLocation, address, pincode string, pricePerHour float64, n int) int {
	l := &lot{
		ID:            b.newID(),
		PrimeLocation: primeLocation,
		PricePerHour:  pricePerHour,
		Address:       address,
		Pincode:       pincode,
		NoOfSpots:     n,
	}
	for i := 0; i < n; i++ {
		s := &spot{ID: b.newID(), LotID: l.ID, Status: "available"}
		b.spots[s.ID] = s
		l.Spots = append(l.Spots, s)
	}
	b.lots[l.ID] = l
	return l.ID
}

func (b *Backend) newID() int {
	b.nextID++
	return b.nextID
}

func (b *Backend) notifyLocked(userID int, title, message string) {
	n := &notification{
		ID:        b.newID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Timestamp: b.nowFunc(),
	}
	b.notifications[n.ID] = n
}

func (b *Backend) requireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(b.cookieName)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing cookie \""+b.cookieName+"\"")
			return
		}
		claims, err := b.creator.Verify(cookie.Value)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Token is invalid")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClaims, claims)))
	})
}

func (b *Backend) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r).Role != role {
			writeMessage(w, http.StatusForbidden, "Access denied!")
			return
		}
		next(w, r)
	}
}

func claimsFrom(r *http.Request) *token.Claims {
	c, _ := r.Context().Value(ctxClaims).(*token.Claims)
	if c == nil {
		return &token.Claims{}
	}
	return c
}

// currentUserLocked returns the user behind the request's token.
func (b *Backend) currentUserLocked(r *http.Request) (*user, bool) {
	u, ok := b.users[claimsFrom(r).Sub]
	return u, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("backendfake: failed to write response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func decodeBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	if r.Body == nil {
		return body, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode body")
	}
	return body, nil
}
