package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisSweepDB  int    `mapstructure:"REDIS_SWEEP_DB"`

	// PayPal REST credentials and endpoints.
	PayPalClientID string `mapstructure:"PAYPAL_CID"`
	PayPalSecret   string `mapstructure:"PAYPAL_SECRET"`
	PayPalEndpoint string `mapstructure:"PAYPAL_ENDPOINT"`
	CheckoutURL    string `mapstructure:"PAYPAL_CHECKOUT_URL"`
	BrandName      string `mapstructure:"PAYPAL_BRAND_NAME"`

	// Exchange rate lookup.
	ExchangeRateURL string  `mapstructure:"EXCHANGE_RATE_URL"`
	FallbackRateMYR float64 `mapstructure:"FALLBACK_RATE_MYR"`

	// Hosts used when building redirect and return URLs.
	FEHost   string `mapstructure:"FE_HOST"`
	FETunnel string `mapstructure:"FE_TUNNEL"`
	BEHost   string `mapstructure:"BE_HOST"`
	BETunnel string `mapstructure:"BE_TUNNEL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SWEEP_DB", 0)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("PAYPAL_ENDPOINT", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("PAYPAL_CHECKOUT_URL", "https://www.sandbox.paypal.com/checkoutnow")
	viper.SetDefault("PAYPAL_BRAND_NAME", "Tripay Merchant Payment")
	viper.SetDefault("EXCHANGE_RATE_URL", "https://api.exchangerate-api.com/v4/latest/USD")
	viper.SetDefault("FALLBACK_RATE_MYR", 4.68)
	viper.SetDefault("FE_HOST", "http://localhost:3000")
	viper.SetDefault("FE_TUNNEL", "")
	viper.SetDefault("BE_HOST", "http://localhost:8080")
	viper.SetDefault("BE_TUNNEL", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
