package config

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Paystack PaystackConfig
	Hubnet   HubnetConfig
	Deposit  DepositConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// PaystackConfig configures the payment gateway used for wallet funding
type PaystackConfig struct {
	BaseURL     string
	SecretKey   string
	CallbackURL string
	Currency    string
	Timeout     time.Duration
}

// HubnetConfig configures the data bundle fulfillment provider
type HubnetConfig struct {
	BaseURL    string
	Token      string
	WebhookURL string
	// WebhookToken is appended to WebhookURL and must come back on every
	// delivery report
	WebhookToken string
	Timeout      time.Duration
}

type DepositConfig struct {
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
}

type JWTConfig struct {
	SecretKey string
}

// BindEnv maps the environment variables onto the viper keys read by Load
func BindEnv() {
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("server.allowed_origins", "ALLOWED_ORIGINS")

	viper.BindEnv("paystack.base_url", "PAYSTACK_BASE_URL")
	viper.BindEnv("paystack.secret_key", "PAYSTACK_SECRET_KEY")
	viper.BindEnv("paystack.callback_url", "PAYSTACK_CALLBACK_URL")
	viper.BindEnv("paystack.currency", "PAYSTACK_CURRENCY")
	viper.BindEnv("paystack.timeout", "PAYSTACK_TIMEOUT")

	viper.BindEnv("hubnet.base_url", "HUBNET_BASE_URL")
	viper.BindEnv("hubnet.token", "HUBNET_API_TOKEN")
	viper.BindEnv("hubnet.webhook_url", "WEBHOOK_URL")
	viper.BindEnv("hubnet.webhook_token", "HUBNET_WEBHOOK_TOKEN")
	viper.BindEnv("hubnet.timeout", "HUBNET_TIMEOUT")

	viper.BindEnv("deposit.min_amount", "DEPOSIT_MIN_AMOUNT")
	viper.BindEnv("deposit.max_amount", "DEPOSIT_MAX_AMOUNT")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
}

// Load reads the settlement configuration with defaults
func Load() *Config {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.allowed_origins", []string{"https://*", "http://*"})

	viper.SetDefault("paystack.base_url", "https://api.paystack.co")
	viper.SetDefault("paystack.callback_url", "http://localhost:3000/verify-payment")
	viper.SetDefault("paystack.currency", "GHS")
	viper.SetDefault("paystack.timeout", 15*time.Second)

	viper.SetDefault("hubnet.base_url", "https://console.hubnet.app/live/api/context/business/transaction")
	viper.SetDefault("hubnet.webhook_url", "http://localhost:8080/api/v1/webhooks/hubnet")
	viper.SetDefault("hubnet.timeout", 30*time.Second)

	viper.SetDefault("deposit.min_amount", "1.00")
	viper.SetDefault("deposit.max_amount", "10000.00")

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("server.port"),
			AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
		},
		Paystack: PaystackConfig{
			BaseURL:     viper.GetString("paystack.base_url"),
			SecretKey:   viper.GetString("paystack.secret_key"),
			CallbackURL: viper.GetString("paystack.callback_url"),
			Currency:    viper.GetString("paystack.currency"),
			Timeout:     viper.GetDuration("paystack.timeout"),
		},
		Hubnet: HubnetConfig{
			BaseURL:      viper.GetString("hubnet.base_url"),
			Token:        viper.GetString("hubnet.token"),
			WebhookURL:   viper.GetString("hubnet.webhook_url"),
			WebhookToken: viper.GetString("hubnet.webhook_token"),
			Timeout:      viper.GetDuration("hubnet.timeout"),
		},
		Deposit: DepositConfig{
			MinAmount: getDecimal("deposit.min_amount", decimal.NewFromInt(1)),
			MaxAmount: getDecimal("deposit.max_amount", decimal.NewFromInt(10000)),
		},
		JWT: JWTConfig{
			SecretKey: viper.GetString("jwt.secret_key"),
		},
	}
}

func getDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if val, err := decimal.NewFromString(viper.GetString(key)); err == nil {
		return val
	}
	return defaultVal
}
