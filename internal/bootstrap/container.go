package bootstrap

import (
	"context"
	"fmt"
	"log"

	"notecraft-be/internal/config"
	"notecraft-be/internal/controller"
	"notecraft-be/internal/handler"
	"notecraft-be/internal/pkg/logger"
	"notecraft-be/internal/repository/implementation"
	"notecraft-be/internal/repository/memory"
	"notecraft-be/internal/service"
	"notecraft-be/internal/websocket"
	"notecraft-be/pkg/cache"
	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/embedding"
	"notecraft-be/pkg/embedding/jina"
	"notecraft-be/pkg/events"
	"notecraft-be/pkg/imagesearch"
	"notecraft-be/pkg/llm/factory"
	"notecraft-be/pkg/rag/classifier"
	"notecraft-be/pkg/rag/indexing"
	"notecraft-be/pkg/rag/retrieval"
	"notecraft-be/pkg/rag/synthesis"
	"notecraft-be/pkg/vectorstore"

	pktNats "notecraft-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController   controller.INoteController
	HealthController controller.IHealthController
	JobStreamHandler *handler.JobStreamHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	JobWorkerService service.IConsumerService
	JobNotifier      service.IJobNotifier
	WebSocketHub     *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer builds the full object graph. db may be nil when the vector
// store driver is "memory".
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	workerLogger := logger.NewIsolatedLogger(cfg.App.WorkerLogFilePath)
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var natsPub events.Publisher
	var natsSub service.EventSubscriber
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
			c.closers = append(c.closers, pub.Close)
		}
		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			natsSub = sub
			c.closers = append(c.closers, sub.Close)
		}
	}

	rdb := newRedisClient(ctx, cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var kv cache.Cache
	if cfg.App.CacheDriver == "redis" && rdb != nil {
		kv = cache.NewRedisCache(rdb, "notecraft:")
		log.Printf("[INFO] Using Cache: REDIS")
	} else {
		kv = cache.NewMemoryCache()
		log.Printf("[INFO] Using Cache: MEMORY")
	}

	store, err := NewVectorStore(db, cfg)
	if err != nil {
		return nil, err
	}

	// 4. Model providers
	embeddingProvider, err := NewEmbeddingProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmProvider, err := factory.NewLLMProvider(factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMBaseURL,
		APIKey:   cfg.LLMAPIKey(),
		Timeout:  cfg.Ai.SynthesizeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Pipeline
	fetchers := corpus.NewDefaultRegistry(cfg.Rag.FetchTimeout, cfg.Keys.PubmedAPIKey)

	indexer := indexing.NewIndexer(embeddingProvider, store, indexing.Config{
		ChunkSize:        cfg.Rag.ChunkSize,
		ChunkOverlap:     cfg.Rag.ChunkOverlap,
		EmbedConcurrency: cfg.Rag.EmbedConcurrency,
		UpsertBatchSize:  cfg.Rag.UpsertBatchSize,
	}, workerLogger)

	indexQueue := service.NewPublisherService(cfg.Queue.IndexTopic, pubSub)
	resolver := retrieval.NewResolver(
		embeddingProvider,
		store,
		fetchers,
		service.NewIndexScheduler(indexQueue),
		retrieval.Config{
			TopK:     cfg.Rag.TopK,
			MinScore: cfg.Rag.MinScore,
			MaxFetch: cfg.Rag.MaxFetch,
			Timeout:  cfg.Rag.RetrievalTimeout,
		},
		sysLogger,
	)

	topicClassifier, err := classifier.NewClassifier(llmProvider, cfg.Ai.ClassifyTimeout, sysLogger)
	if err != nil {
		return nil, err
	}

	imageLookup := imagesearch.NewLookup(
		imagesearch.NewGoogleProvider(cfg.Keys.GoogleSearch, cfg.Keys.GoogleSearchCX, cfg.Rag.ImageTimeout),
		kv,
		cfg.Rag.ImageTimeout,
		sysLogger,
	)
	synthesizer := synthesis.NewSynthesizer(llmProvider, imageLookup, cfg.Ai.SynthesizeTimeout, sysLogger)

	// 6. Jobs and notifications
	wsLogger := logger.NewIsolatedLogger("logs/job_stream.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	notifier := service.NewJobNotifier(natsPub, natsSub, c.WebSocketHub, wsLogger)
	c.JobNotifier = notifier

	jobRepo := implementation.NewNoteJobRepository(kv, cfg.Rag.JobTTL)
	jobQueue := service.NewPublisherService(cfg.Queue.GenerateTopic, pubSub)

	noteService := service.NewNoteService(
		topicClassifier,
		resolver,
		synthesizer,
		imageLookup,
		jobRepo,
		jobQueue,
		notifier,
		sysLogger,
	)

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Queue.IndexTopic, indexer, natsPub, workerLogger)
	c.JobWorkerService = service.NewJobWorkerService(pubSub, cfg.Queue.GenerateTopic, noteService, cfg.Rag.JobWorkers, workerLogger)

	// 7. Controllers
	c.NoteController = controller.NewNoteController(noteService)
	c.HealthController = controller.NewHealthController(cfg.App.Version)
	c.JobStreamHandler = handler.NewJobStreamHandler(noteService, c.WebSocketHub, wsLogger)

	return c, nil
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// NewVectorStore returns the pgvector repository or the in-memory store.
func NewVectorStore(db *gorm.DB, cfg *config.Config) (vectorstore.Store, error) {
	if cfg.Database.VectorStore == "pgvector" {
		if db == nil {
			return nil, fmt.Errorf("vector store %q needs a database connection", cfg.Database.VectorStore)
		}
		log.Printf("[INFO] Using Vector Store: PGVECTOR")
		return implementation.NewPassageRepository(db), nil
	}
	log.Printf("[INFO] Using Vector Store: MEMORY")
	return memory.NewPassageRepository(), nil
}

func newRedisClient(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// NewEmbeddingProvider selects the embedding backend named by EMBEDDING_PROVIDER.
func NewEmbeddingProvider(ctx context.Context, cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingTimeout), nil
	case "jina":
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
		return jina.NewJinaProvider(cfg.Keys.Jina, cfg.Ai.EmbeddingDimensions, cfg.Ai.EmbeddingTimeout), nil
	case "gemini":
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
		p, err := embedding.NewGeminiProvider(ctx, cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini embeddings: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}
