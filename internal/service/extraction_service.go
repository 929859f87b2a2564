package service

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/config"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type ExtractionServiceInterface interface {
	Submit(ctx context.Context, doc model.SubmittedDocument) (*SubmitResult, error)
	FetchBatchResults(ctx context.Context, extractionID, batchID, fileID string) (*BatchResponse, error)
}

type SubmitResult struct {
	BatchID      string
	ExtractionID string
	FileID       string
}

type BatchFile struct {
	FileID   string
	FileName string
	Status   string
	URL      string
	Result   gjson.Result
}

// BatchResponse is the vendor's batch payload. Raw is returned untouched;
// Files is a shallow view of the "files" array.
type BatchResponse struct {
	Raw   []byte
	Files []BatchFile
}

// ExtractionService talks to the resume-parsing vendor. It never retries;
// the ingestion usecase owns the poll loop.
type ExtractionService struct {
	client         *resty.Client
	extractionID   string
	requestTimeout time.Duration
	logger         *log.Logger
}

func NewExtractionService(cfg *config.ExtractionConfig) *ExtractionService {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetTransport(transport).
		SetTimeout(cfg.UploadTimeout).
		SetHeader("Accept", "application/json")

	return &ExtractionService{
		client:         client,
		extractionID:   cfg.ExtractionID,
		requestTimeout: cfg.RequestTimeout,
		logger:         log.New(os.Stdout, "[extraction] ", log.LstdFlags),
	}
}

func (s *ExtractionService) Submit(ctx context.Context, doc model.SubmittedDocument) (*SubmitResult, error) {
	const op = "extraction.submit"
	if s.extractionID == "" {
		return nil, apperror.Validation(op, "extraction template id is not configured")
	}
	if doc.StoragePath == "" {
		return nil, apperror.Validation(op, "document has no storage path")
	}

	f, err := os.Open(doc.StoragePath)
	if err != nil {
		return nil, apperror.New(apperror.KindValidation, op, "cannot open stored document", err)
	}
	defer f.Close()

	s.logger.Printf("uploading document=%s file=%q size=%d", doc.ID, doc.OriginalFilename, doc.SizeBytes)
	resp, err := s.client.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{"extractionId": s.extractionID}).
		SetFileReader("files", doc.OriginalFilename, f).
		Post("/uploadFiles")
	if err != nil {
		return nil, apperror.Network(op, err)
	}
	if !resp.IsSuccess() {
		return nil, apperror.HTTP(op, resp.StatusCode(), truncate(resp.String(), 300))
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, apperror.Decode(op, "upload response is not JSON: "+truncate(string(body), 120), nil)
	}
	res := &SubmitResult{
		BatchID:      gjson.GetBytes(body, "batchId").String(),
		ExtractionID: gjson.GetBytes(body, "extractionId").String(),
		FileID:       firstString(body, "fileId", "files.0.fileId", "fileIds.0"),
	}
	if res.BatchID == "" {
		return nil, apperror.Decode(op, "upload response has no batchId", nil)
	}
	if res.ExtractionID == "" {
		res.ExtractionID = s.extractionID
	}
	s.logger.Printf("uploaded document=%s batch=%s file=%s", doc.ID, res.BatchID, res.FileID)
	return res, nil
}

func (s *ExtractionService) FetchBatchResults(ctx context.Context, extractionID, batchID, fileID string) (*BatchResponse, error) {
	const op = "extraction.fetch_batch_results"
	if extractionID == "" || batchID == "" {
		return nil, apperror.Validation(op, "extraction id and batch id are required")
	}
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	payload := map[string]string{"extractionId": extractionID, "batchId": batchID}
	if fileID != "" {
		payload["fileId"] = fileID
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/getBatchResults")
	if err != nil {
		return nil, apperror.Network(op, err)
	}
	if !resp.IsSuccess() {
		return nil, apperror.HTTP(op, resp.StatusCode(), truncate(resp.String(), 300))
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, apperror.Decode(op, "batch response is not JSON: "+truncate(string(body), 120), nil)
	}
	out := &BatchResponse{Raw: body, Files: []BatchFile{}}
	gjson.GetBytes(body, "files").ForEach(func(_, f gjson.Result) bool {
		out.Files = append(out.Files, BatchFile{
			FileID:   f.Get("fileId").String(),
			FileName: f.Get("fileName").String(),
			Status:   f.Get("status").String(),
			URL:      f.Get("url").String(),
			Result:   f.Get("result"),
		})
		return true
	})
	return out, nil
}

func firstString(body []byte, paths ...string) string {
	for _, p := range paths {
		if v := gjson.GetBytes(body, p).String(); v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return cut(s, n) + "..."
}

// cut shortens s to at most n bytes without splitting a UTF-8 sequence.
func cut(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
