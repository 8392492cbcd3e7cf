package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Payment  PaymentConfig
	Rotation RotationConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// PaymentConfig selects and configures the gateway provider.
type PaymentConfig struct {
	Provider           string // "paystack" or "midtrans"
	PaystackSecretKey  string
	MidtransServerKey  string
	MidtransProduction bool
	CallbackURL        string
	Currency           string
	VerifyMaxRetries   int
}

// RotationConfig carries the tunable knobs of the rotation engine.
type RotationConfig struct {
	ServiceFeeBps        int // fee on payouts, in basis points
	PenaltyRateBps       int // late penalty on the contribution amount
	SlotReservationHours int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AjoCircle"),
		},
		Payment: PaymentConfig{
			Provider:           getEnv("PAYMENT_PROVIDER", "paystack"),
			PaystackSecretKey:  getEnv("PAYSTACK_SECRET_KEY", ""),
			MidtransServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransProduction: getEnv("MIDTRANS_IS_PRODUCTION", "false") == "true",
			CallbackURL:        getEnv("PAYMENT_CALLBACK_URL", "http://localhost:5173/payments/done"),
			Currency:           getEnv("PAYMENT_CURRENCY", "NGN"),
			VerifyMaxRetries:   getEnvAsInt("PAYMENT_VERIFY_MAX_RETRIES", 3),
		},
		Rotation: RotationConfig{
			ServiceFeeBps:        getEnvAsInt("SERVICE_FEE_BPS", 100),
			PenaltyRateBps:       getEnvAsInt("PENALTY_RATE_BPS", 500),
			SlotReservationHours: getEnvAsInt("SLOT_RESERVATION_HOURS", 24),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
