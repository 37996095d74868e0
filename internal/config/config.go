package config

import (
	"os"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env          string
	Port         string
	DataDir      string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	SMTPAddr     string
	SMTPHost     string
	SMTPFrom     string
	SMTPPassword string
}

// Load returns application config populated from environment variables with
// sensible defaults. A .env file in the working directory is honoured when
// present. Notifications are disabled unless AMQP_URL is set.
func Load() App {
	_ = godotenv.Load()

	return App{
		Env:          getEnv("APP_ENV", "dev"),
		Port:         getEnv("PORT", "4000"),
		DataDir:      getEnv("DATA_DIR", "data"),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "portal.notifications"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "portal.registration-notices"),
		SMTPAddr:     getEnv("SMTP_ADDR", "smtp.gmail.com:587"),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
