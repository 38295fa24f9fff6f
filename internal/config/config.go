package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// KV backends understood by kvstore.New
const (
	KVBackendLevelDB = "leveldb"
	KVBackendSQLite  = "sqlite"
	KVBackendRedis   = "redis"
	KVBackendMemory  = "memory"
)

type Config struct {
	Port        string
	Environment string
	// Catalog API
	CatalogBaseURL  string
	CatalogPageSize int
	CatalogTimeout  time.Duration // 0 keeps the http.Client default (no timeout)
	// Local storage
	DataDir     string
	CartFile    string
	KVBackend   string
	LevelDBPath string
	SQLitePath  string
	// Redis Configuration (KV_BACKEND=redis and/or USE_CACHE=true)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      int  // Catalog response cache TTL in seconds
	UseCache      bool // Whether catalog responses are cached
	// Kafka Configuration (optional - activity events)
	KafkaBrokers     []string
	KafkaTopicCart   string
	KafkaTopicSearch string
	KafkaClientID    string
	KafkaAcks        string
	KafkaRetries     int
	UseKafka         bool
	// Image proxy: only these hosts are fetched, bodies are capped at ImageMaxBytes
	ImageAllowedHosts []string
	ImageMaxBytes     int64
	// Idempotency window for cart writes
	IdempotencyTTL time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	return &Config{
		Port:        getEnv("PORT", "8082"),
		Environment: getEnv("ENVIRONMENT", "development"),
		// Catalog
		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", "https://api.escuelajs.co/api/v1/products"),
		CatalogPageSize: getEnvAsInt("CATALOG_PAGE_SIZE", 8),
		CatalogTimeout:  getEnvAsDuration("CATALOG_TIMEOUT", 0),
		// Local storage
		DataDir:     dataDir,
		CartFile:    getEnv("CART_FILE", "cart.json"),
		KVBackend:   strings.ToLower(getEnv("KV_BACKEND", KVBackendLevelDB)),
		LevelDBPath: getEnv("LEVELDB_PATH", filepath.Join(dataDir, "kv.leveldb")),
		SQLitePath:  getEnv("SQLITE_PATH", filepath.Join(dataDir, "kv.db")),
		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsInt("CACHE_TTL", 300),    // 5 minutes default
		UseCache:      getEnvAsBool("USE_CACHE", false), // Cache is optional, default false
		// Kafka
		KafkaBrokers:     getEnvAsList("KAFKA_BROKERS", "localhost:9093"),
		KafkaTopicCart:   getEnv("KAFKA_TOPIC_CART", "smartshop.cart"),
		KafkaTopicSearch: getEnv("KAFKA_TOPIC_SEARCH", "smartshop.search"),
		KafkaClientID:    getEnv("KAFKA_CLIENT_ID", "smartshop"),
		KafkaAcks:        getEnv("KAFKA_ACKS", "all"),
		KafkaRetries:     getEnvAsInt("KAFKA_RETRIES", 3),
		UseKafka:         getEnvAsBool("USE_KAFKA", false),
		IdempotencyTTL:   getEnvAsDuration("IDEMPOTENCY_TTL", 5*time.Minute),
		// Image proxy
		ImageAllowedHosts: getEnvAsList("IMAGE_ALLOWED_HOSTS", "api.escuelajs.co,i.imgur.com,placehold.co,picsum.photos"),
		ImageMaxBytes:     int64(getEnvAsInt("IMAGE_MAX_BYTES", 10<<20)),
	}
}

// CartPath is the full path of the cart JSON file.
func (c *Config) CartPath() string {
	return filepath.Join(c.DataDir, c.CartFile)
}

// RedisAddr joins host and port.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

// getEnvAsList splits a comma-separated value, trimming spaces and dropping
// empty entries.
func getEnvAsList(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return result
}
