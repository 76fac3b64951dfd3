package config

import (
	"crypto/rsa"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	JWTPrivateKey    *rsa.PrivateKey
	JWTPublicKey     *rsa.PublicKey
	DatabaseURL      string
	MigrationsURL    string
	RedisAddr        string
	RedisPassword    string
	Port             string
	TokenTTL         time.Duration
	IdentityCacheTTL time.Duration
	AllowedOrigins   []string
}

func Load() *Config {
	// A missing .env file is fine in containerized deployments where the
	// environment is injected directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	privateKeyPath := envOr("PRIVATE_KEY_PATH", "/etc/certs/private.pem")
	privateKey, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		panic("Failed to load private key: " + err.Error())
	}

	publicKeyPath := envOr("PUBLIC_KEY_PATH", "/etc/certs/public.pem")
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	return &Config{
		JWTPrivateKey:    privateKey,
		JWTPublicKey:     publicKey,
		DatabaseURL:      dbURL,
		MigrationsURL:    envOr("MIGRATIONS_URL", "file://migrations"),
		RedisAddr:        envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		Port:             envOr("PORT", "8080"),
		TokenTTL:         durationOr("TOKEN_TTL", 168*time.Hour),
		IdentityCacheTTL: durationOr("IDENTITY_CACHE_TTL", time.Minute),
		AllowedOrigins:   origins(),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func origins() []string {
	v := os.Getenv("ALLOWED_ORIGINS")
	if v == "" {
		return []string{"*"}
	}
	var out []string
	for _, origin := range strings.Split(v, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(keyData)
}
