package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool // hosted providers such as Upstash require TLS

	WhatsAppBaseURL       string
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	CodeTemplate          string
	ConfirmationTemplate  string

	SNSRegion string

	CodeTTL      time.Duration
	SendCooldown time.Duration
	VerifiedTTL  time.Duration

	RestaurantTZ *time.Location

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Reservations     string
	ReservationLocks string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Reservations:     getEnv("DYNAMO_TABLE_RESERVATIONS", "reservations"),
			ReservationLocks: getEnv("DYNAMO_TABLE_RESERVATION_LOCKS", "reservation_locks"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisTLS:      getEnvBool("REDIS_TLS", false),

		WhatsAppBaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v22.0"),
		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		CodeTemplate:          getEnv("WHATSAPP_CODE_TEMPLATE", "code4u"),
		ConfirmationTemplate:  getEnv("WHATSAPP_CONFIRMATION_TEMPLATE", "delivery_confirmation_2"),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		CodeTTL:      getEnvSeconds("OTP_CODE_TTL_SECONDS", 300),
		SendCooldown: getEnvSeconds("OTP_SEND_COOLDOWN_SECONDS", 60),
		VerifiedTTL:  getEnvSeconds("OTP_VERIFIED_TTL_SECONDS", 600),

		RestaurantTZ: loadLocation(getEnv("RESTAURANT_TZ", "Local")),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("WARN: unknown timezone %q, using local time", name)
		return time.Local
	}
	return loc
}
