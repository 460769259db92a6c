package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	ESURL     string
	ESIndex   string
	ESUser    string
	ESPass    string
	ESRPS     int
	ESTimeout time.Duration

	OpenAIKey    string
	OpenAIBase   string
	EmbedModel   string
	EmbedDims    int
	EmbedTimeout time.Duration

	SessionBackend string // memory|redis
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	SessionTTL     time.Duration

	SearchTopK    int
	IngestWorkers int
	HotelsFile    string
}

// Load reads configuration from the environment (a local .env is honored).
// Missing store or embedding credentials are fatal: the service cannot start
// without them.
func Load() Config {
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Msg("invalid integer value, using default")
		}
		return def
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		ESURL:     os.Getenv("ES_URL"),
		ESIndex:   os.Getenv("ES_INDEX"),
		ESUser:    env("ES_USER", ""),
		ESPass:    env("ES_PASS", ""),
		ESRPS:     atoi("ES_RPS", 10),
		ESTimeout: time.Duration(atoi("ES_TIMEOUT_SECONDS", 10)) * time.Second,

		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBase:   env("OPENAI_API_BASE", ""),
		EmbedModel:   env("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbedDims:    atoi("OPENAI_EMBEDDING_DIMENSIONS", 1536),
		EmbedTimeout: time.Duration(atoi("OPENAI_TIMEOUT_SECONDS", 30)) * time.Second,

		SessionBackend: env("SESSION_BACKEND", "memory"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		SessionTTL:     time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,

		SearchTopK:    atoi("SEARCH_TOP_K", 3),
		IngestWorkers: atoi("INGEST_WORKERS", 4),
		HotelsFile:    env("HOTELS_FILE", "hotels.json"),
	}

	if c.ESURL == "" {
		log.Fatal().Msg("ES_URL is required")
	}
	if c.ESIndex == "" {
		log.Fatal().Msg("ES_INDEX is required")
	}
	if c.OpenAIKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY is required")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
