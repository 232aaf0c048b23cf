package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	backendURLVar     = "BACKEND_URL"
	apiBasePathVar    = "API_BASE_PATH"
	tokenCookieVar    = "ACCESS_TOKEN_COOKIE"
	requestTimeoutVar = "REQUEST_TIMEOUT"

	// DefaultAccessTokenCookie is the cookie the backend sets on login.
	DefaultAccessTokenCookie = "access_token_cookie"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "WePark")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBackendURL returns the origin of the REST backend (e.g. "http://localhost:5000").
// Empty means no backend has been configured.
func (EnvVars) GetBackendURL() string {
	return strings.TrimRight(GetEnv(backendURLVar, ""), "/")
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetAPIBasePath() string {
	return GetEnv(apiBasePathVar, "/api")
}

func (Client) GetAccessTokenCookie() string {
	return GetEnv(tokenCookieVar, DefaultAccessTokenCookie)
}

// GetRequestTimeout returns zero unless REQUEST_TIMEOUT is set, leaving
// timeouts to the transport defaults.
func (Client) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(requestTimeoutVar, "0s"))
	if err != nil {
		return 0
	}
	return d
}

type Payment struct{}

var _ PaymentConfig = Payment{}

func (Payment) GetCurrencySymbol() string {
	return GetEnv("CURRENCY_SYMBOL", "₹")
}

func (Payment) GetRazorpayKeyID() string {
	return GetEnv("RAZORPAY_KEY_ID", "")
}

type FakeBackend struct{}

var _ FakeBackendConfig = FakeBackend{}

func (FakeBackend) GetFakeBackendSecret() string {
	return GetEnv("FAKE_BACKEND_SECRET", "dev-secret")
}

func (FakeBackend) GetFakeAdminUser() string {
	return GetEnv("FAKE_ADMIN_USER", "admin")
}

func (FakeBackend) GetFakeAdminPassword() string {
	return GetEnv("FAKE_ADMIN_PASSWORD", "admin123")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
