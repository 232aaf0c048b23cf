package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config interface {
	EnvConfig
	CorsConfig
	ClientConfig
	PaymentConfig
	FakeBackendConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBackendURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// ClientConfig covers how the API caller reaches the backend.
type ClientConfig interface {
	GetAPIBasePath() string
	GetAccessTokenCookie() string
	GetRequestTimeout() time.Duration
}

type PaymentConfig interface {
	GetCurrencySymbol() string
	GetRazorpayKeyID() string
}

// FakeBackendConfig is only read when no backend URL is configured in DEV.
type FakeBackendConfig interface {
	GetFakeBackendSecret() string
	GetFakeAdminUser() string
	GetFakeAdminPassword() string
}

type mainConfig struct {
	EnvVars
	Cors
	Client
	Payment
	FakeBackend
}

// New loads an optional .env file and returns the environment backed config.
func New(envFiles ...string) Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	return mainConfig{}
}
