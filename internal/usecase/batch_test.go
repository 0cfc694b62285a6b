package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/robertboulos/clearleads/internal/core/domain"
)

type batchAPIMock struct {
	job         domain.BatchJob
	processID   string
	err         error
	gotName     string
	gotAPIKey   string
	uploadCalls int
}

func (m *batchAPIMock) UploadCSV(_ context.Context, csvContent, batchName, apiKey string) (domain.BatchJob, error) {
	m.uploadCalls++
	m.gotName = batchName
	m.gotAPIKey = apiKey
	if m.err != nil {
		return domain.BatchJob{}, m.err
	}
	return m.job, nil
}

func (m *batchAPIMock) Process(_ context.Context, batchID, emailColumn, phoneColumn string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.processID, nil
}

func (m *batchAPIMock) Status(_ context.Context, batchID string) (domain.BatchJob, error) {
	if m.err != nil {
		return domain.BatchJob{}, m.err
	}
	return m.job, nil
}

const sampleCSV = "email,phone\nuser@example.com,+15550100\n"

func TestBatchService_Upload_RequiresCSV(t *testing.T) {
	api := &batchAPIMock{}
	service := NewBatchService(api, &sessionMock{apiKey: "key"}, nil)

	if _, err := service.Upload(context.Background(), "   \n", ""); !errors.Is(err, ErrCSVRequired) {
		t.Fatalf("expected ErrCSVRequired, got %v", err)
	}
	if api.uploadCalls != 0 {
		t.Error("guard must fail before any backend call")
	}
}

func TestBatchService_Upload_RequiresAPIKey(t *testing.T) {
	service := NewBatchService(&batchAPIMock{}, &sessionMock{}, nil)

	if _, err := service.Upload(context.Background(), sampleCSV, ""); !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
}

func TestBatchService_Upload_GeneratesNameAndID(t *testing.T) {
	api := &batchAPIMock{job: domain.BatchJob{Status: domain.BatchPending}}
	service := NewBatchService(api, &sessionMock{apiKey: "key"}, nil)

	job, err := service.Upload(context.Background(), sampleCSV, "")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if api.gotName == "" {
		t.Error("expected generated batch name for blank input")
	}
	if api.gotAPIKey != "key" {
		t.Errorf("expected session api key forwarded, got %q", api.gotAPIKey)
	}
	if job.ID == "" {
		t.Error("expected local id when the backend omits one")
	}
}

func TestBatchService_Upload_KeepsBackendID(t *testing.T) {
	api := &batchAPIMock{job: domain.BatchJob{ID: "b-77", Status: domain.BatchPending}}
	service := NewBatchService(api, &sessionMock{apiKey: "key"}, nil)

	job, err := service.Upload(context.Background(), sampleCSV, "June leads")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if job.ID != "b-77" {
		t.Errorf("backend id must win, got %q", job.ID)
	}
	if api.gotName != "June leads" {
		t.Errorf("supplied name must be forwarded, got %q", api.gotName)
	}
}

func TestBatchService_Process_Guards(t *testing.T) {
	service := NewBatchService(&batchAPIMock{processID: "b-77"}, &sessionMock{apiKey: "key"}, nil)

	if _, err := service.Process(context.Background(), "", "email", ""); !errors.Is(err, ErrBatchIDRequired) {
		t.Fatalf("expected ErrBatchIDRequired, got %v", err)
	}
	if _, err := service.Process(context.Background(), "b-77", "  ", ""); !errors.Is(err, ErrEmailColumnRequired) {
		t.Fatalf("expected ErrEmailColumnRequired, got %v", err)
	}

	id, err := service.Process(context.Background(), "b-77", "email", "phone")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if id != "b-77" {
		t.Errorf("expected batch id echoed, got %q", id)
	}
}

func TestBatchService_Status_RequiresID(t *testing.T) {
	service := NewBatchService(&batchAPIMock{}, &sessionMock{apiKey: "key"}, nil)

	if _, err := service.Status(context.Background(), "  "); !errors.Is(err, ErrBatchIDRequired) {
		t.Fatalf("expected ErrBatchIDRequired, got %v", err)
	}
}

func TestBatchJob_Done(t *testing.T) {
	if (domain.BatchJob{Status: domain.BatchProcessing}).Done() {
		t.Error("processing batch is not done")
	}
	if !(domain.BatchJob{Status: domain.BatchCompleted}).Done() {
		t.Error("completed batch is done")
	}
	if !(domain.BatchJob{Status: domain.BatchFailed}).Done() {
		t.Error("failed batch is done")
	}
}
