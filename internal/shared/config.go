package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	StoreAddr     string
	MetricsAddr   string
	MySQLDSN      string
	StoreBackend  string // mysql|memory
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	StoreBaseURL  string
	StoreToken    string
	StoreRPS      int
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaGroup    string
	CacheTTL      time.Duration
	EnrichWorkers int
	SeedWorkers   int
	SeedFile      string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		StoreAddr:     env("STORE_ADDR", ":8081"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/stayhub?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		StoreBackend:  env("STORE_BACKEND", "mysql"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		StoreBaseURL:  env("STORE_BASE_URL", "http://localhost:8081"),
		StoreToken:    env("STORE_TOKEN", ""),
		StoreRPS:      atoi("STORE_RPS", 50),
		KafkaBrokers:  list(env("KAFKA_BROKERS", "")),
		KafkaTopic:    env("KAFKA_TOPIC", "stayhub.events"),
		KafkaGroup:    env("KAFKA_GROUP", "stayhub-notifier"),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		EnrichWorkers: atoi("ENRICH_WORKERS", 8),
		SeedWorkers:   atoi("SEED_WORKERS", 4),
		SeedFile:      env("SEED_FILE", "seed.json"),
	}
	if len(c.KafkaBrokers) == 0 {
		log.Warn().Msg("KAFKA_BROKERS is empty; events will not be published")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
