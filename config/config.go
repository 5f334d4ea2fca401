package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Webhook  WebhookConfig
	Fx       FxConfig
	Paypal   PaypalConfig
	Fedapay  FedapayConfig
	Kkiapay  KkiapayConfig
	Cinetpay CinetpayConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// PublicBaseURL is prepended to webhook and redirect paths handed to providers.
	PublicBaseURL string
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type WebhookConfig struct {
	// MinCorrelationIDLen bounds the legacy notes-substring lookup: shorter
	// correlation ids skip the fallback entirely.
	MinCorrelationIDLen int
}

// FxConfig holds the fixed conversion rates applied when a provider does not
// support the store currency. Rates are plain "1 unit of From buys Rate units
// of To" quotes; every applied conversion is logged with the rate used.
type FxConfig struct {
	XOFToUSD string
	XOFToEUR string
}

// PaypalConfig, FedapayConfig, KkiapayConfig and CinetpayConfig hold only
// service-level endpoints. Per-store credentials live in store_payment_configs.
type PaypalConfig struct {
	LiveURL    string
	SandboxURL string
}

type FedapayConfig struct {
	LiveURL    string
	SandboxURL string
}

type KkiapayConfig struct {
	BaseURL string
}

type CinetpayConfig struct {
	BaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] .env not loaded: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Port:          env("PORT", "8088"),
			Env:           env("APP_ENV", "development"),
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			PublicBaseURL: env("PUBLIC_BASE_URL", "http://localhost:8088"),
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "vendora:vendora@tcp(localhost:3306)/vendora?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: env("JWT_SECRET", "change-me-in-production"),
			Expiry: 12 * time.Hour,
			Issuer: "vendora",
		},
		Webhook: WebhookConfig{
			MinCorrelationIDLen: envInt("WEBHOOK_MIN_CORRELATION_LEN", 6),
		},
		Fx: FxConfig{
			XOFToUSD: env("FX_XOF_USD", "0.0016"),
			XOFToEUR: env("FX_XOF_EUR", "0.0015"),
		},
		Paypal: PaypalConfig{
			LiveURL:    env("PAYPAL_LIVE_URL", "https://api-m.paypal.com"),
			SandboxURL: env("PAYPAL_SANDBOX_URL", "https://api-m.sandbox.paypal.com"),
		},
		Fedapay: FedapayConfig{
			LiveURL:    env("FEDAPAY_LIVE_URL", "https://api.fedapay.com"),
			SandboxURL: env("FEDAPAY_SANDBOX_URL", "https://sandbox-api.fedapay.com"),
		},
		Kkiapay: KkiapayConfig{
			BaseURL: env("KKIAPAY_API_URL", "https://api.kkiapay.me"),
		},
		Cinetpay: CinetpayConfig{
			BaseURL: env("CINETPAY_API_URL", "https://api-checkout.cinetpay.com"),
		},
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
