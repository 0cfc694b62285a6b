package xano

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/domain"
)

type batchUploadResponse struct {
	Success   bool        `json:"success"`
	BatchID   json.Number `json:"batch_id"`
	CSVDataID json.Number `json:"csv_data_id"`
	Message   string      `json:"message"`
}

type batchStatusResponse struct {
	BatchID       json.Number     `json:"batch_id"`
	Status        string          `json:"status"`
	Progress      int             `json:"progress"`
	TotalRows     int             `json:"total_rows"`
	ProcessedRows int             `json:"processed_rows"`
	ValidCount    int             `json:"valid_count"`
	InvalidCount  int             `json:"invalid_count"`
	ResultsURL    string          `json:"results_url"`
	CreatedAt     json.RawMessage `json:"created_at"`
	CompletedAt   json.RawMessage `json:"completed_at"`
}

// UploadCSV submits raw CSV content for batch validation.
func (c *Client) UploadCSV(ctx context.Context, csvContent, batchName, apiKey string) (domain.BatchJob, error) {
	raw, err := c.post(ctx, pathBatchUploadCSV, map[string]string{
		"csv_content": csvContent,
		"api_key":     apiKey,
		"batch_name":  batchName,
	})
	if err != nil {
		return domain.BatchJob{}, err
	}

	var resp batchUploadResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.BatchJob{}, fmt.Errorf("decode batch upload: %w", err)
	}

	// The upload endpoint only acknowledges; row counts come from the CSV
	// itself (header excluded) until the first status poll.
	totalRows := strings.Count(strings.TrimRight(csvContent, "\n"), "\n")

	job := domain.BatchJob{
		ID:        resp.BatchID.String(),
		FileName:  batchName,
		TotalRows: totalRows,
		Status:    domain.BatchPending,
		CreatedAt: time.Now().UTC(),
	}

	c.log.Info("batch uploaded",
		zap.String("batch_id", job.ID),
		zap.Int("total_rows", job.TotalRows))
	return job, nil
}

// Process starts server-side processing of an uploaded batch.
func (c *Client) Process(ctx context.Context, batchID, emailColumn, phoneColumn string) (string, error) {
	raw, err := c.post(ctx, pathBatchProcess, map[string]string{
		"batch_id":     batchID,
		"email_column": emailColumn,
		"phone_column": phoneColumn,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		BatchID json.Number `json:"batch_id"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return batchID, nil
	}
	if id := resp.BatchID.String(); id != "" && id != "0" {
		return id, nil
	}
	return batchID, nil
}

// Status polls the backend for batch progress.
func (c *Client) Status(ctx context.Context, batchID string) (domain.BatchJob, error) {
	raw, err := c.get(ctx, pathBatchStatus+"/"+batchID, nil)
	if err != nil {
		return domain.BatchJob{}, err
	}

	var resp batchStatusResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.BatchJob{}, fmt.Errorf("decode batch status: %w", err)
	}

	now := time.Now().UTC()
	job := domain.BatchJob{
		ID:            resp.BatchID.String(),
		TotalRows:     resp.TotalRows,
		ProcessedRows: resp.ProcessedRows,
		ValidCount:    resp.ValidCount,
		InvalidCount:  resp.InvalidCount,
		Status:        domain.BatchStatus(resp.Status),
		Progress:      resp.Progress,
		ResultsURL:    resp.ResultsURL,
		CreatedAt:     parseTimestamp(resp.CreatedAt, now),
	}
	if job.ID == "" || job.ID == "0" {
		job.ID = batchID
	}
	if len(resp.CompletedAt) > 0 && string(resp.CompletedAt) != "null" {
		completed := parseTimestamp(resp.CompletedAt, now)
		job.CompletedAt = &completed
	}

	return job, nil
}
