// @title           Document Knowledge Base API
// @version         1.0
// @description     This API handles asynchronous document ingestion and semantic search
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/GoKB/internal/config"
	"github.com/akolanti/GoKB/internal/data/store"
	jobmodel "github.com/akolanti/GoKB/internal/domain/jobModel"
	"github.com/akolanti/GoKB/internal/handlers"
	"github.com/akolanti/GoKB/internal/job"
	"github.com/akolanti/GoKB/internal/kb"
	"github.com/akolanti/GoKB/internal/kb/cache"
	"github.com/akolanti/GoKB/internal/kb/embedding"
	"github.com/akolanti/GoKB/internal/kb/embedding/googleEmbedding"
	"github.com/akolanti/GoKB/internal/kb/embedding/openaiEmbedding"
	"github.com/akolanti/GoKB/internal/kb/index"
	"github.com/akolanti/GoKB/internal/mcpserver"
	"github.com/akolanti/GoKB/internal/server"
	"github.com/akolanti/GoKB/internal/worker"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var (
	listenAddr        string
	embedderName      string
	mcpMode           bool
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	kbConfig := config.DefaultKBConfig()
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&kbConfig.PersistDir, "persist-dir", kbConfig.PersistDir, "directory for the local vector index")
	flag.StringVar(&kbConfig.CacheDir, "cache-dir", kbConfig.CacheDir, "directory for the document chunk cache")
	flag.StringVar(&kbConfig.MetadataFile, "metadata-file", kbConfig.MetadataFile, "path of the document registry file")
	flag.StringVar(&kbConfig.IndexBackend, "index-backend", kbConfig.IndexBackend, "vector index backend: local or qdrant")
	flag.StringVar(&embedderName, "embedder", "openai", "embedding provider: openai or google")
	flag.BoolVar(&mcpMode, "mcp", false, "serve the knowledge base over MCP stdio instead of HTTP")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//drop stale cache entries from previous runs before taking traffic
	pruned := cache.New(kbConfig.CacheDir).EvictOlderThan(config.CacheMaxAgeDays)
	if pruned > 0 {
		logger.Info("Evicted stale cache entries", "count", pruned)
	}

	var embedder embedding.Embedder
	switch embedderName {
	case "google":
		kbConfig.EmbeddingModel = config.GoogleEmbeddingModel
		embedder = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, kbConfig)
	default:
		embedder = openaiEmbedding.GetOpenAIEmbeddingClient(kbConfig)
	}
	if embedder == nil {
		logger.Error("Embedding service failed to initialize. Shutting down.")
		return
	}

	var vectorIndex index.VectorIndex
	var err error
	if kbConfig.IndexBackend == config.IndexBackendQdrant {
		vectorIndex, err = index.NewQdrantIndex(serviceContext, kbConfig, embedder)
	} else {
		vectorIndex, err = index.NewFlatIndex(kbConfig.PersistDir, kbConfig.Dimension, embedder)
	}
	if err != nil {
		logger.Error("Vector index failed to initialize. Shutting down.", "backend", kbConfig.IndexBackend, "error", err)
		return
	}

	kbService := kb.NewService(kbConfig, vectorIndex)

	if mcpMode {
		//stdio transport owns the process, no HTTP server in this mode
		mcpServer, err := mcpserver.NewServer("gokb", "1.0.0", kbService)
		if err != nil {
			logger.Error("MCP server failed to initialize", "error", err)
			return
		}
		if err := mcpServer.Run(serviceContext); err != nil {
			logger.Error("MCP server stopped", "error", err)
		}
		return
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil {
		logger.Error("Redis job store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	handlers.InitJobHandler(service, kbService)

	//init worker pool
	worker.InitServices(service, kb.NewRunner(kbService))
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
