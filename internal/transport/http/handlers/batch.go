package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robertboulos/clearleads/internal/usecase"
)

// BatchHandler exposes CSV batch validation.
type BatchHandler struct {
	batch *usecase.BatchService
}

// NewBatchHandler builds a BatchHandler.
func NewBatchHandler(batch *usecase.BatchService) *BatchHandler {
	return &BatchHandler{batch: batch}
}

// RegisterRoutes wires the batch endpoints onto the supplied group.
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/batch/upload", h.Upload)
	rg.POST("/batch/process", h.Process)
	rg.GET("/batch/status/:id", h.Status)
}

// BatchUploadRequest is the payload for a CSV upload.
type BatchUploadRequest struct {
	CSVContent string `json:"csv_content" binding:"required"`
	BatchName  string `json:"batch_name"`
}

// Upload submits CSV content for batch validation.
func (h *BatchHandler) Upload(c *gin.Context) {
	var req BatchUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid batch payload"))
		return
	}

	job, err := h.batch.Upload(c.Request.Context(), req.CSVContent, req.BatchName)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCSVRequired, Status: http.StatusBadRequest, Message: "csv content is required"},
			{Err: usecase.ErrAPIKeyMissing, Status: http.StatusUnauthorized, Message: "api key unavailable: sign in first"},
		}, http.StatusInternalServerError, "batch upload failed")
		return
	}

	c.JSON(http.StatusCreated, toBatchView(job))
}

// BatchProcessRequest is the payload for starting batch processing.
type BatchProcessRequest struct {
	BatchID     string `json:"batch_id" binding:"required"`
	EmailColumn string `json:"email_column" binding:"required"`
	PhoneColumn string `json:"phone_column"`
}

// Process starts server-side processing of an uploaded batch.
func (h *BatchHandler) Process(c *gin.Context) {
	var req BatchProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid batch payload"))
		return
	}

	batchID, err := h.batch.Process(c.Request.Context(), req.BatchID, req.EmailColumn, req.PhoneColumn)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBatchIDRequired, Status: http.StatusBadRequest, Message: "batch id is required"},
			{Err: usecase.ErrEmailColumnRequired, Status: http.StatusBadRequest, Message: "email column is required"},
		}, http.StatusInternalServerError, "batch processing failed")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"batchId": batchID})
}

// Status polls batch progress.
func (h *BatchHandler) Status(c *gin.Context) {
	job, err := h.batch.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBatchIDRequired, Status: http.StatusBadRequest, Message: "batch id is required"},
		}, http.StatusInternalServerError, "batch status failed")
		return
	}

	c.JSON(http.StatusOK, toBatchView(job))
}
