package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig is the minimal configuration the outbox relay needs; the
// relay never serves HTTP or issues tokens.
type RelayConfig struct {
	DatabaseURL    string
	RabbitMQURL    string
	ResetQueueName string
}

func LoadRelayConfig() *RelayConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:    dbURL,
		RabbitMQURL:    rabbitURL,
		ResetQueueName: envOr("RESET_QUEUE_NAME", "password-resets"),
	}
}
