// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	AIService  AIServiceConfig  `mapstructure:"ai_service"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Ranking    RankingConfig    `mapstructure:"ranking"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses      []string `mapstructure:"addresses"`
	Username       string   `mapstructure:"username"`
	Password       string   `mapstructure:"password"`
	CandidateIndex string   `mapstructure:"candidate_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AIServiceConfig points at the external parsing/embedding/scoring service.
type AIServiceConfig struct {
	URL       string          `mapstructure:"url"`
	TimeoutMS int             `mapstructure:"timeout_ms"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

func (a AIServiceConfig) Timeout() time.Duration {
	if a.TimeoutMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutMS) * time.Millisecond
}

// RateLimitConfig bounds outbound calls to the AI service. Fixed window,
// shared across worker processes via Redis.
type RateLimitConfig struct {
	Requests int `mapstructure:"requests"`
	WindowMS int `mapstructure:"window_ms"`
}

func (r RateLimitConfig) Window() time.Duration {
	if r.WindowMS <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowMS) * time.Millisecond
}

// WorkerConfig bounds the resume-processing pool. Concurrency is the only
// real backpressure against the embedding service and the vector index.
type WorkerConfig struct {
	Concurrency      int    `mapstructure:"concurrency"`
	MaxAttempts      int    `mapstructure:"max_attempts"`
	QueueName        string `mapstructure:"queue_name"`
	DequeueTimeoutMS int    `mapstructure:"dequeue_timeout_ms"`
}

func (w WorkerConfig) DequeueTimeout() time.Duration {
	if w.DequeueTimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(w.DequeueTimeoutMS) * time.Millisecond
}

type RankingConfig struct {
	DefaultLimit    int     `mapstructure:"default_limit"`
	OverfetchFactor int     `mapstructure:"overfetch_factor"`
	VectorBonus     float64 `mapstructure:"vector_bonus"`
}

type CacheConfig struct {
	CandidateTTLMS int `mapstructure:"candidate_ttl_ms"`
}

func (c CacheConfig) CandidateTTL() time.Duration {
	if c.CandidateTTLMS <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CandidateTTLMS) * time.Millisecond
}

// EncryptionConfig holds the AES-256 key for resume text at rest,
// hex-encoded (64 hex chars).
type EncryptionConfig struct {
	Key string `mapstructure:"key"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
