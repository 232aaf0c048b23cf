package auth

// Credentials identify a user by username or email.
type Credentials struct {
	UserOrMail string `json:"user_or_mail"`
	Password   string `json:"password"`
}

// SignupRequest registers a new user account.
type SignupRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Address         string `json:"address"`
	Pincode         string `json:"pincode"`
}

// LoginResult is the identity returned by a successful login.
type LoginResult struct {
	Message  string `json:"message"`
	Role     string `json:"role"`
	Username string `json:"username"`
}
