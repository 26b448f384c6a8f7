// Package config reads process configuration from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Server configures the room relay.
type Server struct {
	ListenAddr string `validate:"required"`
}

// Client configures the demo client session.
type Client struct {
	RelayURL     string `validate:"required,url"`
	NominatimURL string `validate:"required,url"`
	Language     string `validate:"required,bcp47_language_tag"`
	Name         string `validate:"required"`
	Role         string
	Room         string `validate:"omitempty,len=6"`
}

func LoadServer() (Server, error) {
	_ = godotenv.Load()
	cfg := Server{
		ListenAddr: envOr("TRACELINK_LISTEN_ADDR", ":8080"),
	}
	if err := validate.Struct(cfg); err != nil {
		return Server{}, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

func LoadClient() (Client, error) {
	_ = godotenv.Load()
	cfg := Client{
		RelayURL:     envOr("TRACELINK_RELAY_URL", "ws://localhost:8080"),
		NominatimURL: envOr("TRACELINK_NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		Language:     envOr("TRACELINK_LANG", "en"),
		Name:         os.Getenv("TRACELINK_NAME"),
		Role:         os.Getenv("TRACELINK_ROLE"),
		Room:         os.Getenv("TRACELINK_ROOM"),
	}
	if err := validate.Struct(cfg); err != nil {
		return Client{}, fmt.Errorf("client config: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
