package config

import (
	"fmt"
	"os"
)

// Config holds everything the API needs from the environment. Values are read
// once at startup; main calls godotenv.Load() before Load so a local .env
// works the same as real environment variables.
type Config struct {
	Port string

	MongoURI      string
	MongoDatabase string

	// Auth0-style OIDC provider. Tokens are verified against the JWKS
	// published under the domain; audience is optional but checked when set.
	AuthDomain   string
	AuthAudience string

	// S3 (or S3-compatible) storage for resume uploads. Optional: when the
	// bucket is empty the upload endpoint is not registered.
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     getenv("MONGO_DATABASE", "jobtracker"),
		AuthDomain:        os.Getenv("AUTH_DOMAIN"),
		AuthAudience:      os.Getenv("AUTH_AUDIENCE"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Region:          getenv("S3_REGION", "us-east-1"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.AuthDomain == "" {
		return nil, fmt.Errorf("AUTH_DOMAIN is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
