package users

import "github.com/jrsteele09/wepark-client/sessions"

// User is an account as listed by the backend.
type User struct {
	ID       int    `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
	Role     string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == sessions.RoleAdmin
}
