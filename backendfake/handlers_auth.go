package backendfake

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/wepark-client/cookies"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userOrMail := strings.TrimSpace(utils.ToString(body["user_or_mail"]))
	password := utils.ToString(body["password"])
	if userOrMail == "" || password == "" {
		writeMessage(w, http.StatusBadRequest, "Username/Email and password are required!")
		return
	}

	b.mu.RLock()
	u := b.findUserLocked(userOrMail)
	b.mu.RUnlock()
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials!")
		return
	}

	accessToken, err := b.creator.CreateAccessToken(u.Username, u.Role, itoa(u.ID))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     b.cookieName,
		Value:    accessToken,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Login successful!",
		"role":     u.Role,
		"username": u.Username,
	})
}

func (b *Backend) signup(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	field := func(k string) string { return strings.TrimSpace(utils.ToString(body[k])) }
	email, username := field("email"), field("username")
	password, confirm := utils.ToString(body["password"]), utils.ToString(body["confirm_password"])

	switch {
	case email == "" || username == "" || password == "":
		writeMessage(w, http.StatusBadRequest, "All fields are required!")
		return
	case len(password) < minPasswordLength:
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters!")
		return
	case password != confirm:
		writeMessage(w, http.StatusBadRequest, "Passwords do not match!")
		return
	}

	if err := b.addUser(username, email, password, "user", field("address"), field("pincode")); err != nil {
		writeMessage(w, http.StatusConflict, "User already exists!")
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully!")
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, cookies.Expired(b.cookieName))
	writeMessage(w, http.StatusOK, "Logout successful!")
}

func (b *Backend) findUserLocked(userOrMail string) *user {
	if u, ok := b.users[userOrMail]; ok {
		return u
	}
	for _, u := range b.users {
		if strings.EqualFold(u.Email, userOrMail) {
			return u
		}
	}
	return nil
}
