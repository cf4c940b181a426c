package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//auth - token comes from env, bypass is for local runs only
	NoAuthBypass = true
	AuthToken    = ""

	//chunking defaults, same numbers the splitter was tuned with
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultSearchTopK   = 4

	//embedding
	EmbeddingDimension   = 1536
	OpenAIEmbeddingModel = "text-embedding-3-small"
	GoogleEmbeddingModel = "gemini-embedding-001"
	DefaultAPIBaseURL    = "https://aihubmix.com/v1"
	EmbeddingCallTimeout = 30 * time.Second

	//knowledge base directories (overridable by flags)
	DefaultPersistDir   = "kb_data/index"
	DefaultCacheDir     = "kb_data/cache"
	DefaultMetadataFile = "kb_data/metadata.json"

	//cache maintenance
	CacheMaxAgeDays = 7

	//index backends
	IndexBackendLocal  = "local"
	IndexBackendQdrant = "qdrant"
	IndexCollection    = "kb-chunks"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//big pdfs embed in batches, give each ingest job room to finish
	IngestJobTimeout = 120 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost     = ""
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	RedisJobStore    = 0
	RedisJobStoreTTL = 24 * time.Hour
)

// KBConfig is the explicit configuration passed to every knowledge base
// component constructor. There is deliberately no shared mutable config
// object - each component copies what it needs at construction time.
type KBConfig struct {
	PersistDir   string
	CacheDir     string
	MetadataFile string

	APIKey         string
	BaseURL        string
	EmbeddingModel string
	Dimension      int
	EmbedTimeout   time.Duration

	ChunkSize    int
	ChunkOverlap int

	IndexBackend string
	QdrantHost   string
	QdrantPort   int
	QdrantUseTLS bool
}

// DefaultKBConfig fills the struct with the compile-time defaults plus the
// credential material from the environment.
func DefaultKBConfig() KBConfig {
	apiKey := os.Getenv("AIHUBMIX_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	return KBConfig{
		PersistDir:     DefaultPersistDir,
		CacheDir:       DefaultCacheDir,
		MetadataFile:   DefaultMetadataFile,
		APIKey:         apiKey,
		BaseURL:        baseURL,
		EmbeddingModel: OpenAIEmbeddingModel,
		Dimension:      EmbeddingDimension,
		EmbedTimeout:   EmbeddingCallTimeout,
		ChunkSize:      DefaultChunkSize,
		ChunkOverlap:   DefaultChunkOverlap,
		IndexBackend:   IndexBackendLocal,
		QdrantHost:     QdrantHost,
		QdrantPort:     QdrantGrpcPort,
		QdrantUseTLS:   QdrantUseTLS,
	}
}
