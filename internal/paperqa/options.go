// Package paperqa provides the PaperQA service application.
package paperqa

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/paperqa-io/paperqa/pkg/component/mongodb"
	logopts "github.com/paperqa-io/paperqa/pkg/options/log"
	milvusopts "github.com/paperqa-io/paperqa/pkg/options/milvus"
	ollamaopts "github.com/paperqa-io/paperqa/pkg/options/ollama"
	httpopts "github.com/paperqa-io/paperqa/pkg/options/server/http"
)

// Options contains all PaperQA service options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Milvus contains Milvus database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Ollama contains Ollama client configuration.
	Ollama *ollamaopts.Options `json:"ollama" mapstructure:"ollama"`

	// Mongo contains MongoDB configuration for the query audit log.
	Mongo *mongodb.Options `json:"mongo" mapstructure:"mongo"`

	// RAG contains retrieval pipeline configuration.
	RAG *RAGOptions `json:"rag" mapstructure:"rag"`
}

// RAGOptions contains retrieval pipeline configuration.
type RAGOptions struct {
	// ChunkSize is the size of text chunks in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between consecutive chunks in characters.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// TopK is the number of chunks retrieved per query.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// Collection is the name of the Milvus collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// LogCollection is the MongoDB collection for query audit entries.
	LogCollection string `json:"log-collection" mapstructure:"log-collection"`
}

// NewRAGOptions creates new RAGOptions with defaults.
func NewRAGOptions() *RAGOptions {
	return &RAGOptions{
		ChunkSize:     1000,
		ChunkOverlap:  200,
		TopK:          4,
		Collection:    "research_papers",
		EmbeddingDim:  768, // nomic-embed-text dimension
		LogCollection: "query_logs",
	}
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		HTTP:   httpopts.NewOptions(),
		Log:    logopts.NewOptions(),
		Milvus: milvusopts.NewOptions(),
		Ollama: ollamaopts.NewOptions(),
		Mongo:  mongodb.NewOptions(),
		RAG:    NewRAGOptions(),
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Ollama.AddFlags(fs, "ollama.")
	o.Mongo.AddFlags(fs, "mongo.")
	o.addRAGFlags(fs)
}

func (o *Options) addRAGFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.RAG.ChunkSize, "rag.chunk-size", o.RAG.ChunkSize, "Size of text chunks in characters")
	fs.IntVar(&o.RAG.ChunkOverlap, "rag.chunk-overlap", o.RAG.ChunkOverlap, "Overlap between consecutive chunks in characters")
	fs.IntVar(&o.RAG.TopK, "rag.top-k", o.RAG.TopK, "Number of chunks retrieved per query")
	fs.StringVar(&o.RAG.Collection, "rag.collection", o.RAG.Collection, "Milvus collection name")
	fs.IntVar(&o.RAG.EmbeddingDim, "rag.embedding-dim", o.RAG.EmbeddingDim, "Embedding vector dimension")
	fs.StringVar(&o.RAG.LogCollection, "rag.log-collection", o.RAG.LogCollection, "MongoDB collection for query audit entries")
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if errs := o.HTTP.Validate(); len(errs) > 0 {
		return errs[0]
	}
	if errs := o.Milvus.Validate(); len(errs) > 0 {
		return errs[0]
	}
	if err := o.Ollama.Validate(); err != nil {
		return err
	}
	if err := o.Mongo.Validate(); err != nil {
		return err
	}
	if o.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag.chunk-size must be positive")
	}
	if o.RAG.ChunkOverlap < 0 || o.RAG.ChunkOverlap >= o.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk-overlap must be in [0, chunk-size)")
	}
	if o.RAG.TopK <= 0 {
		return fmt.Errorf("rag.top-k must be positive")
	}
	if o.RAG.Collection == "" {
		return fmt.Errorf("rag.collection is required")
	}
	if o.RAG.EmbeddingDim <= 0 {
		return fmt.Errorf("rag.embedding-dim must be positive")
	}
	if o.RAG.LogCollection == "" {
		return fmt.Errorf("rag.log-collection is required")
	}
	return nil
}

// Complete completes the options.
func (o *Options) Complete() error {
	return nil
}
