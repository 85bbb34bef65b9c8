package config

import "os"

// Config carries the process-level settings. Values come from the
// environment (a .env file is loaded in main); defaults match the local
// docker-compose setup.
type Config struct {
	ListenAddr    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		PostgresDSN:   getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=lendlydb port=5432 sslmode=disable"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		JWTSecret:     getenv("JWT_SECRET", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
