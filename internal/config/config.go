package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"homespace"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"homespace_dev_password"`
	DBName     string `envconfig:"DB_NAME" default:"homespace"`
	JWTSecret  string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`

	// RedisURL empty means the in-process broker is used instead of Redis.
	RedisURL string `envconfig:"REDIS_URL" default:""`

	CloudinaryCloudName string `envconfig:"CLOUDINARY_CLOUD_NAME" default:""`
	CloudinaryAPIKey    string `envconfig:"CLOUDINARY_API_KEY" default:""`
	CloudinaryAPISecret string `envconfig:"CLOUDINARY_API_SECRET" default:""`
}

func Load() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return &cfg
}
