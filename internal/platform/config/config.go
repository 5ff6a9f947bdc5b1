package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the eligibility engine.
type Server struct {
	Addr          string
	EngineID      string
	Administrator string
	JWTSigningKey string
	TokenTTL      time.Duration
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  string
	AuditTopic    string
}

// RedisConfig groups connection tuning for the result cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const defaultTokenTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SECUREKYC_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	engineID := os.Getenv("SECUREKYC_ENGINE_ID")
	if engineID == "" {
		engineID = "securekyc-dev"
	}

	tokenTTL := defaultTokenTTL
	if ttlStr := os.Getenv("TOKEN_TTL"); ttlStr != "" {
		if duration, err := time.ParseDuration(ttlStr); err == nil {
			tokenTTL = duration
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Dev default; production deployments must override.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "securekyc.audit.events"
	}

	return Server{
		Addr:          addr,
		EngineID:      engineID,
		Administrator: os.Getenv("SECUREKYC_ADMIN"),
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      tokenTTL,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		AuditTopic:    auditTopic,
	}
}

// Redis builds the cache backend config with sane defaults.
func (s Server) Redis() RedisConfig {
	return RedisConfig{
		URL:          s.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
