package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderPayPal      = "paypal"
	ProviderMercadoPago = "mercadopago"
	ProviderMock        = "mock"

	PayPalEnvironmentSandbox = "sandbox"
	PayPalEnvironmentLive    = "live"
)

var (
	ErrMissingPayPalCredentials      = errors.New("missing PAYPAL_CLIENT_ID or PAYPAL_CLIENT_SECRET")
	ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
)

// Config holds runtime configuration parsed from environment variables.
//
// Credentials are never defaulted: the process must be given them at start.
type Config struct {
	Port     string
	LogLevel string

	Provider               string
	PayPalClientID         string
	PayPalClientSecret     string
	PayPalEnvironment      string
	MercadoPagoAccessToken string

	FrontendOrigin  string
	ProviderTimeout time.Duration
	ShutdownTimeout time.Duration
}

// Load builds Config with defaults, overridden by environment variables, and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:                   getenvDefault("PORT", "8080"),
		LogLevel:               strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		Provider:               strings.ToLower(getenvDefault("PAYMENT_PROVIDER", ProviderPayPal)),
		PayPalClientID:         strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_ID")),
		PayPalClientSecret:     strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_SECRET")),
		PayPalEnvironment:      strings.ToLower(getenvDefault("PAYPAL_ENVIRONMENT", PayPalEnvironmentSandbox)),
		MercadoPagoAccessToken: strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")),
		FrontendOrigin:         strings.TrimRight(getenvDefault("FRONTEND_ORIGIN", "http://localhost:3000"), "/"),
	}
	if isPaymentGatewayMockEnabled() {
		cfg.Provider = ProviderMock
	}

	var err error
	if cfg.ProviderTimeout, err = envSeconds("PROVIDER_TIMEOUT_SECONDS", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = envSeconds("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields Load cannot default.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}

	switch c.Provider {
	case ProviderPayPal:
		if c.PayPalClientID == "" || c.PayPalClientSecret == "" {
			return ErrMissingPayPalCredentials
		}
		if c.PayPalEnvironment != PayPalEnvironmentSandbox && c.PayPalEnvironment != PayPalEnvironmentLive {
			return fmt.Errorf("invalid PAYPAL_ENVIRONMENT %q (want %s or %s)", c.PayPalEnvironment, PayPalEnvironmentSandbox, PayPalEnvironmentLive)
		}
	case ProviderMercadoPago:
		if c.MercadoPagoAccessToken == "" {
			return ErrMissingMercadoPagoAccessToken
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.Provider)
	}

	u, err := url.Parse(c.FrontendOrigin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || (u.Path != "" && u.Path != "/") {
		return fmt.Errorf("invalid FRONTEND_ORIGIN %q", c.FrontendOrigin)
	}

	if c.ProviderTimeout <= 0 {
		return errors.New("PROVIDER_TIMEOUT_SECONDS must be greater than zero")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than zero")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envSeconds(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return time.Duration(seconds) * time.Second, nil
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
