// Package config loads the planner service's configuration from
// environment variables, mirroring the rest of the fleet's services:
// nested per-concern structs, getEnv* helpers with defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Service  ServiceConfig
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Geocoder GeocoderConfig
	Router   RouterConfig
}

type ServiceConfig struct {
	Name        string
	Environment string
	Version     string
	LogLevel    string
}

type ServerConfig struct {
	HTTPPort     int
	GRPCPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// GeocoderConfig configures the Nominatim client.
type GeocoderConfig struct {
	BaseURL       string
	UserAgent     string
	MinIntervalMs int
	TimeoutSecs   int
}

// RouterConfig configures the OpenRouteService client.
type RouterConfig struct {
	BaseURL     string
	APIKey      string
	TimeoutSecs int
}

// Load builds Config from environment variables, falling back to sane
// defaults for local development.
func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        getEnv("SERVICE_NAME", "trip-planner"),
			Environment: getEnv("ENVIRONMENT", "development"),
			Version:     getEnv("VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			HTTPPort:     getEnvInt("HTTP_PORT", 8080),
			GRPCPort:     getEnvInt("GRPC_PORT", 9090),
			ReadTimeout:  getEnvDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "tripplanner"),
			Password:        getEnv("DB_PASSWORD", "tripplanner"),
			Database:        getEnv("DB_NAME", "tripplanner"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC_TRIP_COMPLETED", "planner.trip.completed"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:       getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org/search"),
			UserAgent:     getEnv("GEOCODER_USER_AGENT", "TripPlanner/1.0 (hos-trip-planning)"),
			MinIntervalMs: getEnvInt("GEOCODER_MIN_INTERVAL_MS", 1000),
			TimeoutSecs:   getEnvInt("GEOCODER_TIMEOUT_SECS", 10),
		},
		Router: RouterConfig{
			BaseURL:     getEnv("ROUTER_BASE_URL", "https://api.openrouteservice.org/v2/directions/driving-hgv"),
			APIKey:      getEnv("OPENROUTESERVICE_API_KEY", ""),
			TimeoutSecs: getEnvInt("ROUTER_TIMEOUT_SECS", 30),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvSlice(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var result []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return def
	}
	return result
}

// DSN returns the Postgres connection string for this config.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database +
		" sslmode=" + c.SSLMode
}
