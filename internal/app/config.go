package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config описывает настройки запуска сервиса. Все значения читаются из
// переменных окружения; PostgreSQL и Kafka опциональны — без них сервис
// работает на in-memory хранилище и не публикует события.
type Config struct {
	HTTPAddr    string `env:"IMS_HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"IMS_METRICS_ADDR" envDefault:":9090"`

	PostgresDSN  string   `env:"IMS_POSTGRES_DSN"`
	KafkaBrokers []string `env:"IMS_KAFKA_BROKERS" envSeparator:","`

	SessionSecret string        `env:"IMS_SESSION_SECRET" envDefault:"dev-session-secret"`
	SessionTTL    time.Duration `env:"IMS_SESSION_TTL" envDefault:"24h"`

	OutboxPollInterval time.Duration `env:"IMS_OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	OutboxBatchSize    int           `env:"IMS_OUTBOX_BATCH_SIZE" envDefault:"100"`
}

// ReadConfig собирает конфигурацию из окружения.
func ReadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config from env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return cfg, nil
}
