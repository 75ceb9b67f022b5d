package biz_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa-io/paperqa/internal/paperqa/biz"
)

// stubExtractor maps filenames to pages or an error.
type stubExtractor struct {
	pages map[string][]biz.Page
	errs  map[string]error
}

func (e *stubExtractor) Extract(name string, _ []byte) ([]biz.Page, error) {
	if err, ok := e.errs[name]; ok {
		return nil, err
	}
	return e.pages[name], nil
}

func newIngestor(extractor biz.Extractor) *biz.Ingestor {
	return biz.NewIngestor(extractor, &biz.IngestorConfig{ChunkSize: 100, ChunkOverlap: 20})
}

func TestIngestSingleFile(t *testing.T) {
	extractor := &stubExtractor{pages: map[string][]biz.Page{
		"paper.pdf": {
			{Number: 1, Text: strings.Repeat("alpha ", 40)}, // 240 chars, 3 chunks
			{Number: 2, Text: "short page"},
		},
	}}

	chunks, statuses, err := newIngestor(extractor).Ingest([]biz.UploadedFile{
		{Name: "paper.pdf", Data: []byte("%PDF")},
	})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "paper.pdf", statuses[0].Name)
	assert.NoError(t, statuses[0].Err)
	assert.Equal(t, len(chunks), statuses[0].ChunkCount)

	// Page 1 produces multiple chunks with 0-based per-page indices.
	var page1, page2 int
	for _, c := range chunks {
		assert.Equal(t, "paper.pdf", c.SourceDocument)
		switch c.PageNumber {
		case 1:
			assert.Equal(t, page1, c.ChunkIndex)
			page1++
		case 2:
			assert.Equal(t, page2, c.ChunkIndex)
			page2++
		default:
			t.Fatalf("unexpected page number %d", c.PageNumber)
		}
	}
	assert.Greater(t, page1, 1)
	assert.Equal(t, 1, page2)
}

func TestIngestSkipsUnparseableFiles(t *testing.T) {
	extractor := &stubExtractor{
		pages: map[string][]biz.Page{
			"good.pdf": {{Number: 1, Text: "usable content"}},
		},
		errs: map[string]error{
			"broken.pdf": errors.New("malformed xref table"),
		},
	}

	chunks, statuses, err := newIngestor(extractor).Ingest([]biz.UploadedFile{
		{Name: "broken.pdf"},
		{Name: "good.pdf"},
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "good.pdf", chunks[0].SourceDocument)

	require.Len(t, statuses, 2)
	assert.Error(t, statuses[0].Err)
	assert.NoError(t, statuses[1].Err)
}

func TestIngestAllFilesFail(t *testing.T) {
	extractor := &stubExtractor{errs: map[string]error{
		"a.pdf": errors.New("bad"),
		"b.pdf": errors.New("worse"),
	}}

	_, statuses, err := newIngestor(extractor).Ingest([]biz.UploadedFile{
		{Name: "a.pdf"},
		{Name: "b.pdf"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, biz.ErrExtraction)
	assert.Len(t, statuses, 2)
}

func TestIngestEmptyPagesProduceNoChunks(t *testing.T) {
	extractor := &stubExtractor{pages: map[string][]biz.Page{
		"blank.pdf": {{Number: 1, Text: "   \n\t  "}},
	}}

	_, _, err := newIngestor(extractor).Ingest([]biz.UploadedFile{
		{Name: "blank.pdf"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, biz.ErrExtraction)
}

func TestIngestNormalizesPageWhitespace(t *testing.T) {
	extractor := &stubExtractor{pages: map[string][]biz.Page{
		"ragged.pdf": {{Number: 1, Text: "  Deep \n\n learning\tmodels \r\n generalize.  "}},
	}}

	chunks, _, err := newIngestor(extractor).Ingest([]biz.UploadedFile{{Name: "ragged.pdf"}})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Deep learning models generalize.", chunks[0].Text)
}

func TestIngestChunkOverlap(t *testing.T) {
	text := strings.Repeat("x", 250)
	extractor := &stubExtractor{pages: map[string][]biz.Page{
		"p.pdf": {{Number: 1, Text: text}},
	}}

	chunks, _, err := newIngestor(extractor).Ingest([]biz.UploadedFile{{Name: "p.pdf"}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 0; i < len(chunks)-1; i++ {
		cur := chunks[i].Text
		next := chunks[i+1].Text
		assert.Equal(t, cur[len(cur)-20:], next[:20])
	}
}

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	_, err := biz.NewPDFExtractor().Extract("garbage.pdf", []byte("this is not a pdf"))
	assert.Error(t, err)
}
