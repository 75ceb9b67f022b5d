package paperqa

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/paperqa-io/paperqa/internal/paperqa/biz"
	"github.com/paperqa-io/paperqa/internal/paperqa/handler"
	"github.com/paperqa-io/paperqa/internal/paperqa/metrics"
	"github.com/paperqa-io/paperqa/internal/paperqa/store"
	"github.com/paperqa-io/paperqa/pkg/app"
	"github.com/paperqa-io/paperqa/pkg/component/milvus"
	"github.com/paperqa-io/paperqa/pkg/component/mongodb"
	"github.com/paperqa-io/paperqa/pkg/component/ollama"
)

const (
	appName        = "paperqa"
	appDescription = `PaperQA Service

A retrieval-augmented question answering service over uploaded research papers.

This server provides:
  - PDF upload with per-page text extraction and chunking
  - Vector indexing of chunks with Ollama embeddings in Milvus
  - Question answering grounded in the indexed papers with source attribution
  - Query audit logging to MongoDB`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithShortDescription("Retrieval-augmented QA over research papers"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the PaperQA service with the given options.
func Run(opts *Options) error {
	// 1. Initialize logging.
	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting PaperQA service...")

	ctx := context.Background()

	// 2. Initialize the Milvus client and vector store.
	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return fmt.Errorf("failed to initialize milvus: %w", err)
	}
	defer func() { _ = milvusClient.Close(context.Background()) }()
	vectorStore := store.NewMilvusStore(milvusClient)
	logger.Info("Milvus client initialized")

	// 3. Initialize the Ollama client and verify the models.
	ollamaClient := ollama.New(opts.Ollama)
	if err := ollamaClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach ollama: %w", err)
	}
	if opts.Ollama.PullOnStartup {
		for _, model := range []string{opts.Ollama.EmbedModel, opts.Ollama.ChatModel} {
			if err := ollamaClient.EnsureModel(ctx, model); err != nil {
				return fmt.Errorf("failed to ensure model %s: %w", model, err)
			}
		}
	}
	logger.Infow("Ollama client initialized",
		"embed_model", opts.Ollama.EmbedModel,
		"chat_model", opts.Ollama.ChatModel,
	)

	// 4. Initialize MongoDB for the query audit log.
	mongoClient, err := mongodb.New(opts.Mongo)
	if err != nil {
		return fmt.Errorf("failed to initialize mongodb: %w", err)
	}
	defer func() { _ = mongoClient.Close() }()
	auditStore := store.NewMongoAuditStore(mongoClient.Collection(opts.RAG.LogCollection))
	logger.Infow("MongoDB audit store initialized",
		"database", opts.Mongo.Database,
		"collection", opts.RAG.LogCollection,
	)

	// 5. Initialize the biz layer.
	service := biz.NewPaperService(
		vectorStore,
		ollamaClient,
		ollamaClient,
		auditStore,
		biz.NewPDFExtractor(),
		metrics.Get(),
		&biz.ServiceConfig{
			Collection:            opts.RAG.Collection,
			CollectionDescription: "Chunks of uploaded research papers",
			EmbeddingDim:          opts.RAG.EmbeddingDim,
			ChunkSize:             opts.RAG.ChunkSize,
			ChunkOverlap:          opts.RAG.ChunkOverlap,
			TopK:                  opts.RAG.TopK,
		},
	)
	if err := service.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}
	logger.Infow("PaperQA service initialized", "collection", opts.RAG.Collection)

	// 6. Initialize the handler layer and the server.
	paperHandler := handler.NewPaperHandler(service)
	healthHandler := handler.NewHealthHandler()
	server := NewServer(opts.HTTP, paperHandler, healthHandler)

	logger.Info("PaperQA service is ready")
	return server.Run()
}
