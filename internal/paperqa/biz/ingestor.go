package biz

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kart-io/logger"
	"github.com/ledongthuc/pdf"

	"github.com/paperqa-io/paperqa/internal/model"
	"github.com/paperqa-io/paperqa/internal/pkg/textutil"
)

// Page is a single page of extracted text.
type Page struct {
	// Number is the 1-based page number.
	Number int
	// Text is the raw extracted page text.
	Text string
}

// Extractor extracts per-page text from an uploaded document.
type Extractor interface {
	// Extract returns the pages of the document in order.
	Extract(name string, data []byte) ([]Page, error)
}

// PDFExtractor extracts text from PDF files.
type PDFExtractor struct{}

var _ Extractor = (*PDFExtractor)(nil)

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract parses the PDF and returns per-page plain text.
func (e *PDFExtractor) Extract(name string, data []byte) (pages []Page, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to parse %s: %v", name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warnw("failed to extract page text, skipping page",
				"document", name,
				"page", num,
				"error", err.Error(),
			)
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, Page{Number: num, Text: text})
	}

	return pages, nil
}

// UploadedFile is a document submitted for ingestion.
type UploadedFile struct {
	// Name is the original filename.
	Name string
	// Data is the raw file content.
	Data []byte
}

// FileStatus reports the per-file outcome of an ingestion batch.
type FileStatus struct {
	// Name is the original filename.
	Name string
	// ChunkCount is the number of chunks produced from the file.
	ChunkCount int
	// Err is non-nil when the file was skipped.
	Err error
}

// IngestorConfig configures the chunker.
type IngestorConfig struct {
	// ChunkSize is the chunk size in Unicode characters.
	ChunkSize int
	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int
}

// Ingestor turns uploaded documents into retrievable chunks.
type Ingestor struct {
	extractor Extractor
	config    *IngestorConfig
}

// NewIngestor creates an ingestor with the given extractor.
func NewIngestor(extractor Extractor, config *IngestorConfig) *Ingestor {
	return &Ingestor{
		extractor: extractor,
		config:    config,
	}
}

// Ingest extracts and chunks every file in the batch. Files that cannot be
// parsed are skipped and reported in the returned statuses; the batch fails
// only when no file yields any chunk.
func (i *Ingestor) Ingest(files []UploadedFile) ([]model.Chunk, []FileStatus, error) {
	var chunks []model.Chunk
	statuses := make([]FileStatus, 0, len(files))

	for _, file := range files {
		pages, err := i.extractor.Extract(file.Name, file.Data)
		if err != nil {
			logger.Warnw("skipping unparseable document",
				"document", file.Name,
				"error", err.Error(),
			)
			statuses = append(statuses, FileStatus{Name: file.Name, Err: err})
			continue
		}

		count := 0
		for _, page := range pages {
			pageText := textutil.NormalizeWhitespace(page.Text)
			for idx, text := range textutil.SplitIntoChunks(pageText, i.config.ChunkSize, i.config.ChunkOverlap) {
				if strings.TrimSpace(text) == "" {
					continue
				}
				chunks = append(chunks, model.Chunk{
					Text:           text,
					SourceDocument: file.Name,
					PageNumber:     page.Number,
					ChunkIndex:     idx,
				})
				count++
			}
		}

		if count == 0 {
			err := fmt.Errorf("%w: no text extracted from %s", ErrExtraction, file.Name)
			statuses = append(statuses, FileStatus{Name: file.Name, Err: err})
			continue
		}

		statuses = append(statuses, FileStatus{Name: file.Name, ChunkCount: count})
	}

	if len(chunks) == 0 {
		return nil, statuses, fmt.Errorf("%w: no chunks produced from %d file(s)", ErrExtraction, len(files))
	}

	return chunks, statuses, nil
}
