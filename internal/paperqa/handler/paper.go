// Package handler provides HTTP handlers for the PaperQA service.
package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/paperqa-io/paperqa/internal/model"
	"github.com/paperqa-io/paperqa/internal/paperqa/biz"
)

// PaperHandler handles paper upload and question answering requests.
type PaperHandler struct {
	service biz.Service
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(service biz.Service) *PaperHandler {
	return &PaperHandler{service: service}
}

// Upload handles PDF uploads.
//
// @Summary      Upload research papers
// @Description  Accepts one or more PDF files, extracts their text, chunks it, embeds the chunks and stores them in the vector index. Files that cannot be parsed are skipped.
// @Tags         papers
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "PDF files to ingest"
// @Success      201  {object}  model.UploadResponse
// @Failure      400  {object}  model.ErrorResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /papers [post]
func (h *PaperHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid multipart form: " + err.Error()})
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "no files provided, expected multipart field 'files'"})
		return
	}

	files := make([]biz.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "failed to open uploaded file " + fh.Filename + ": " + err.Error()})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "failed to read uploaded file " + fh.Filename + ": " + err.Error()})
			return
		}
		files = append(files, biz.UploadedFile{Name: fh.Filename, Data: data})
	}

	report, err := h.service.IngestPapers(c.Request.Context(), files)
	if err != nil {
		writeError(c, err)
		return
	}

	for _, skipped := range report.Skipped {
		logger.Warnw("skipped unparseable upload", "file", skipped.Name, "error", skipped.Err.Error())
	}

	c.JSON(http.StatusCreated, model.UploadResponse{
		Status:             "success",
		Message:            uploadMessage(report),
		ProcessedDocuments: report.ProcessedDocuments,
	})
}

func uploadMessage(report *biz.IngestReport) string {
	return fmt.Sprintf("Successfully processed and stored %d document chunks from %d file(s).",
		report.ChunksStored, len(report.ProcessedDocuments))
}

// Query answers a question using the indexed papers.
//
// @Summary      Ask a question
// @Description  Embeds the question, retrieves the most similar chunks and generates a grounded answer with source attribution.
// @Tags         query
// @Accept       json
// @Produce      json
// @Param        request  body      model.QueryRequest  true  "Question to answer"
// @Success      200  {object}  model.AnswerResponse
// @Failure      400  {object}  model.ErrorResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /query [post]
func (h *PaperHandler) Query(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	answer, err := h.service.Query(c.Request.Context(), req.Question)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// Stats returns index and runtime statistics.
//
// @Summary      Service statistics
// @Description  Returns the chunk count of the vector collection together with query, retrieval and generation counters.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  model.ErrorResponse
// @Router       /stats [get]
func (h *PaperHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// writeError maps service errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, biz.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, biz.ErrExtraction):
		status = http.StatusBadRequest
	case errors.Is(err, biz.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, biz.ErrNotReady):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		logger.Errorw("request failed", "path", c.FullPath(), "error", err.Error())
	}
	c.JSON(status, model.ErrorResponse{Error: err.Error()})
}
