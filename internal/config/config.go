package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"notecraft-be/pkg/database"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
	Queue    QueueConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Version            string
	Environment        string
	LogFilePath        string
	WorkerLogFilePath  string
	CorsAllowedOrigins string
	JwtSecret          string
	NatsURL            string
	RedisURL           string
	CacheDriver        string // "redis" or "memory"
}

type DatabaseConfig struct {
	Connection      string
	VectorStore     string // "pgvector" or "memory"
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
	LogLevel        string // "silent", "error", "warn" or "info"
}

type APIKeys struct {
	GoogleGemini   string
	OpenRouter     string
	HuggingFace    string
	Jina           string
	GoogleSearch   string
	GoogleSearchCX string
	PubmedAPIKey   string
}

type AIConfig struct {
	LLMProvider         string // "openrouter", "huggingface" or "ollama"
	LLMModel            string
	LLMBaseURL          string
	EmbeddingProvider   string // "gemini", "jina" or "ollama"
	EmbeddingModel      string
	EmbeddingDimensions int
	OllamaBaseURL       string
	ClassifyTimeout     time.Duration
	SynthesizeTimeout   time.Duration
	EmbeddingTimeout    time.Duration
}

type RagConfig struct {
	TopK             int
	MinScore         float64
	MaxFetch         int
	RetrievalTimeout time.Duration
	FetchTimeout     time.Duration
	ImageTimeout     time.Duration
	ChunkSize        int
	ChunkOverlap     int
	UpsertBatchSize  int
	EmbedConcurrency int
	JobWorkers       int
	JobTTL           time.Duration
}

type QueueConfig struct {
	IndexTopic    string
	GenerateTopic string
}

// TracingConfig is read from the same .env as everything else, so tracing
// must be initialised after Load.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Version:            getEnv("APP_VERSION", "dev"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			WorkerLogFilePath:  getEnv("WORKER_LOG_FILE_PATH", "worker.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			CacheDriver:        getEnv("CACHE_DRIVER", "memory"),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			VectorStore:     getEnv("VECTOR_STORE", "memory"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			SlowQuery:       getEnvAsDuration("DB_SLOW_QUERY_THRESHOLD", time.Second),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		},
		Keys: APIKeys{
			GoogleGemini:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenRouter:     getEnv("OPENROUTER_API_KEY", ""),
			HuggingFace:    getEnv("HF_API_KEY", ""),
			Jina:           getEnv("JINA_API_KEY", ""),
			GoogleSearch:   getEnv("GOOGLE_SEARCH_API_KEY", ""),
			GoogleSearchCX: getEnv("GOOGLE_SEARCH_CX", ""),
			PubmedAPIKey:   getEnv("PUBMED_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:         getEnv("LLM_PROVIDER", "openrouter"),
			LLMModel:            getEnv("LLM_MODEL", "google/gemini-2.0-flash-001"),
			LLMBaseURL:          getEnv("LLM_BASE_URL", ""),
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			ClassifyTimeout:     getEnvAsDuration("CLASSIFY_TIMEOUT", 30*time.Second),
			SynthesizeTimeout:   getEnvAsDuration("SYNTHESIZE_TIMEOUT", 120*time.Second),
			EmbeddingTimeout:    getEnvAsDuration("EMBEDDING_TIMEOUT", 30*time.Second),
		},
		Rag: RagConfig{
			TopK:             getEnvAsInt("RAG_TOP_K", 3),
			MinScore:         getEnvAsFloat("RAG_MIN_SCORE", 0.2),
			MaxFetch:         getEnvAsInt("RAG_MAX_FETCH", 3),
			RetrievalTimeout: getEnvAsDuration("RAG_RETRIEVAL_TIMEOUT", 20*time.Second),
			FetchTimeout:     getEnvAsDuration("RAG_FETCH_TIMEOUT", 15*time.Second),
			ImageTimeout:     getEnvAsDuration("IMAGE_SEARCH_TIMEOUT", 5*time.Second),
			ChunkSize:        getEnvAsInt("RAG_CHUNK_SIZE", 2000),
			ChunkOverlap:     getEnvAsInt("RAG_CHUNK_OVERLAP", 200),
			UpsertBatchSize:  getEnvAsInt("RAG_UPSERT_BATCH_SIZE", 100),
			EmbedConcurrency: getEnvAsInt("RAG_EMBED_CONCURRENCY", 4),
			JobWorkers:       getEnvAsInt("NOTE_JOB_WORKERS", 4),
			JobTTL:           getEnvAsDuration("NOTE_JOB_TTL", 24*time.Hour),
		},
		Queue: QueueConfig{
			IndexTopic:    getEnv("INDEX_PASSAGES_TOPIC_NAME", "INDEX_PASSAGES"),
			GenerateTopic: getEnv("GENERATE_NOTES_TOPIC_NAME", "GENERATE_NOTES"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// LLMAPIKey picks the key matching the configured generation provider.
func (c *Config) LLMAPIKey() string {
	switch c.Ai.LLMProvider {
	case "huggingface":
		return c.Keys.HuggingFace
	default:
		return c.Keys.OpenRouter
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// DatabaseOptions maps the pool and logger settings onto the gorm helper.
func (d DatabaseConfig) DatabaseOptions() database.Options {
	return database.Options{
		DSN:             d.Connection,
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		SlowThreshold:   d.SlowQuery,
		LogLevel:        d.LogLevel,
	}
}

// getEnvAsDuration accepts Go duration strings ("30s", "2m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
