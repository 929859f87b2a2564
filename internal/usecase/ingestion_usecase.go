package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/normalizer"
	"github.com/fadilmartias/hr-onboarding/internal/retry"
	"github.com/fadilmartias/hr-onboarding/internal/service"
	"github.com/fadilmartias/hr-onboarding/internal/util"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

const recheckNote = "resume parsing is still in progress, re-check later"

var (
	vendorDoneStatuses   = []string{"processed", "completed", "done", "success"}
	vendorFailedStatuses = []string{"failed", "error"}
)

type ExtractionJobStore interface {
	Create(ctx context.Context, job *model.ExtractionJob) error
	Update(ctx context.Context, job *model.ExtractionJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ExtractionJob, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *model.SubmittedDocument) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SubmittedDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ApplicationOpener interface {
	Open(ctx context.Context, candidateID uuid.UUID, jobPostingID uint) (*model.Application, error)
}

type JobPostingFinder interface {
	FindByID(ctx context.Context, id uint) (*model.JobPosting, error)
}

// ResumeSink is the write side of the persistence gateway used by ingestion.
type ResumeSink interface {
	SaveCanonicalRecord(ctx context.Context, record dto.CanonicalResume, doc model.SubmittedDocument) bool
	UpdateAPIProcessingStatus(ctx context.Context, candidateID uuid.UUID, jobPostingID uint, status model.APIStatus, raw []byte, errMsg string) bool
}

type UploadLimits struct {
	Dir         string
	MaxBytes    int64
	MaxPDFPages int
}

// IngestionUsecase drives one resume from upload through vendor extraction
// to a stored canonical record.
type IngestionUsecase struct {
	extraction   service.ExtractionServiceInterface
	jobs         ExtractionJobStore
	documents    DocumentStore
	applications ApplicationOpener
	postings     JobPostingFinder
	sink         ResumeSink
	policy       retry.Policy
	limits       UploadLimits
	sleep        func(ctx context.Context, d time.Duration) error
	inspectPDF   func(path string, maxPages int) (int, error)
	logger       *log.Logger
}

func NewIngestionUsecase(
	extraction service.ExtractionServiceInterface,
	jobs ExtractionJobStore,
	documents DocumentStore,
	applications ApplicationOpener,
	postings JobPostingFinder,
	sink ResumeSink,
	policy retry.Policy,
	limits UploadLimits,
) *IngestionUsecase {
	return &IngestionUsecase{
		extraction:   extraction,
		jobs:         jobs,
		documents:    documents,
		applications: applications,
		postings:     postings,
		sink:         sink,
		policy:       policy,
		limits:       limits,
		sleep:        retry.Sleep,
		inspectPDF:   util.InspectPDF,
		logger:       log.New(os.Stdout, "[ingestion] ", log.LstdFlags),
	}
}

// SubmitResume validates and stores a candidate's upload, opens the
// application and runs ingestion synchronously.
func (uc *IngestionUsecase) SubmitResume(ctx context.Context, ident dto.Identity, jobPostingID uint, upload dto.ResumeUpload) (*dto.IngestionResultDTO, error) {
	const op = "ingestion.submit_resume"
	if !ident.HasRole(string(model.RoleCandidate)) {
		return nil, apperror.Forbidden(op, "only candidates can upload resumes")
	}
	if err := util.ValidateResumeFile(upload.Filename, upload.MimeType, upload.Size, uc.limits.MaxBytes); err != nil {
		return nil, apperror.Validation(op, err.Error())
	}

	posting, err := uc.postings.FindByID(ctx, jobPostingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(op, "job posting not found")
		}
		return nil, apperror.Persistence(op, "load job posting", err)
	}
	if !posting.Open {
		return nil, apperror.Validation(op, "job posting is closed")
	}

	path, err := util.StoreUpload(upload.Content, uc.limits.Dir, upload.Filename)
	if err != nil {
		return nil, apperror.New(apperror.KindInternal, op, "store upload", err)
	}
	if strings.EqualFold(filepath.Ext(upload.Filename), ".pdf") {
		if _, err := uc.inspectPDF(path, uc.limits.MaxPDFPages); err != nil {
			_ = os.Remove(path)
			return nil, apperror.Validation(op, err.Error())
		}
	}

	doc := model.SubmittedDocument{
		CandidateID:      ident.UserID,
		JobPostingID:     posting.ID,
		StoragePath:      path,
		OriginalFilename: filepath.Base(upload.Filename),
		MimeType:         upload.MimeType,
		SizeBytes:        upload.Size,
	}
	if err := uc.documents.Create(ctx, &doc); err != nil {
		_ = os.Remove(path)
		return nil, apperror.Persistence(op, "save document", err)
	}
	app, err := uc.applications.Open(ctx, ident.UserID, posting.ID)
	if err != nil {
		if derr := uc.documents.Delete(context.WithoutCancel(ctx), doc.ID); derr != nil {
			uc.logger.Printf("remove orphaned document=%s: %v", doc.ID, derr)
		}
		_ = os.Remove(path)
		return nil, apperror.Persistence(op, "open application", err)
	}

	result := uc.Ingest(ctx, doc)
	result.ApplicationID = app.ID
	return result, nil
}

// Ingest runs submit, poll, normalize and persist for one stored document.
// It always returns a result with a non-nil canonical record and leaves the
// extraction job in exactly one terminal phase. Vendor errors end the job;
// they are never returned.
func (uc *IngestionUsecase) Ingest(ctx context.Context, doc model.SubmittedDocument) *dto.IngestionResultDTO {
	// Writes must land even if the caller goes away mid-poll.
	store := context.WithoutCancel(ctx)

	job := &model.ExtractionJob{DocumentID: doc.ID, Phase: model.PhaseSubmitted}
	if err := uc.jobs.Create(store, job); err != nil {
		uc.logger.Printf("create extraction job document=%s: %v", doc.ID, err)
	}

	submitted, err := uc.extraction.Submit(ctx, doc)
	if err != nil {
		return uc.fail(store, job, doc, err)
	}
	job.ExtractionID = submitted.ExtractionID
	job.BatchID = submitted.BatchID
	job.FileID = submitted.FileID
	job.Phase = model.PhasePolling
	uc.saveJob(store, job)
	uc.logger.Printf("document=%s batch=%s polling up to %d times over at most %v",
		doc.ID, job.BatchID, uc.policy.Attempts(), uc.policy.MaxWait())

	for attempt := 1; attempt <= uc.policy.Attempts(); attempt++ {
		if err := uc.sleep(ctx, uc.policy.Backoff(attempt)); err != nil {
			job.LastError = err.Error()
			break
		}
		job.Attempts = attempt

		resp, err := uc.extraction.FetchBatchResults(ctx, job.ExtractionID, job.BatchID, job.FileID)
		if err != nil {
			return uc.fail(store, job, doc, err)
		}
		if result, done := uc.settle(store, job, doc, resp); done {
			return result
		}
		uc.logger.Printf("document=%s batch=%s attempt %d/%d still processing", doc.ID, job.BatchID, attempt, uc.policy.Attempts())
	}

	return uc.timeout(store, job, doc)
}

// Recheck polls a timed out job once more and completes it if the vendor has
// finished in the meantime.
func (uc *IngestionUsecase) Recheck(ctx context.Context, jobID uuid.UUID) (*dto.IngestionResultDTO, error) {
	const op = "ingestion.recheck"
	job, err := uc.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(op, "extraction job not found")
		}
		return nil, apperror.Persistence(op, "load extraction job", err)
	}
	if job.Phase != model.PhaseTimedOut {
		return nil, apperror.Conflict(op, fmt.Sprintf("extraction job is %s, only timed out jobs can be re-checked", job.Phase))
	}
	doc, err := uc.documents.FindByID(ctx, job.DocumentID)
	if err != nil {
		return nil, apperror.Persistence(op, "load document", err)
	}

	store := context.WithoutCancel(ctx)
	job.Attempts++
	resp, err := uc.extraction.FetchBatchResults(ctx, job.ExtractionID, job.BatchID, job.FileID)
	if err != nil {
		job.LastError = err.Error()
		uc.saveJob(store, job)
		return nil, err
	}
	if result, done := uc.settle(store, job, *doc, resp); done {
		return result, nil
	}
	return uc.timeout(store, job, *doc), nil
}

// settle inspects one batch response. done is false while the vendor is
// still working on the file.
func (uc *IngestionUsecase) settle(ctx context.Context, job *model.ExtractionJob, doc model.SubmittedDocument, resp *service.BatchResponse) (*dto.IngestionResultDTO, bool) {
	file, ok := matchFile(resp.Files, job.FileID, doc.OriginalFilename)
	if !ok {
		return nil, false
	}
	status := strings.ToLower(strings.TrimSpace(file.Status))
	switch {
	case slices.Contains(vendorDoneStatuses, status):
		return uc.complete(ctx, job, doc, file, resp.Raw), true
	case slices.Contains(vendorFailedStatuses, status):
		err := apperror.Decode("ingestion.poll", "vendor reported status "+status, nil)
		return uc.fail(ctx, job, doc, err), true
	}
	return nil, false
}

func (uc *IngestionUsecase) complete(ctx context.Context, job *model.ExtractionJob, doc model.SubmittedDocument, file service.BatchFile, raw []byte) *dto.IngestionResultDTO {
	record := normalizer.NormalizeFile(file.Result)
	if record.IsEmpty() {
		uc.logger.Printf("document=%s: vendor result has no recognizable fields", doc.ID)
	}
	// The stored audit copy is the whole batch body, not only our file entry.
	if gjson.ValidBytes(raw) {
		record.Raw = append(json.RawMessage(nil), raw...)
	}

	job.Phase = model.PhaseCompleted
	job.LastError = ""
	uc.saveJob(ctx, job)

	result := uc.result(job, doc, record)
	if uc.sink.SaveCanonicalRecord(ctx, record, doc) {
		uc.sink.UpdateAPIProcessingStatus(ctx, doc.CandidateID, doc.JobPostingID, model.APIStatusCompleted, raw, "")
		uc.logger.Printf("document=%s parsed after %d attempts", doc.ID, job.Attempts)
		return result
	}

	msg := "parsed resume could not be saved"
	uc.sink.UpdateAPIProcessingStatus(ctx, doc.CandidateID, doc.JobPostingID, model.APIStatusFailed, raw, msg)
	result.Message = msg
	return result
}

func (uc *IngestionUsecase) fail(ctx context.Context, job *model.ExtractionJob, doc model.SubmittedDocument, cause error) *dto.IngestionResultDTO {
	uc.logger.Printf("document=%s extraction failed: %v", doc.ID, cause)
	job.Phase = model.PhaseFailed
	job.LastError = cause.Error()
	uc.saveJob(ctx, job)

	uc.sink.UpdateAPIProcessingStatus(ctx, doc.CandidateID, doc.JobPostingID, model.APIStatusFailed, nil, cause.Error())

	result := uc.result(job, doc, dto.NewCanonicalResume())
	result.Message = apperror.UserMessage(cause)
	return result
}

func (uc *IngestionUsecase) timeout(ctx context.Context, job *model.ExtractionJob, doc model.SubmittedDocument) *dto.IngestionResultDTO {
	uc.logger.Printf("document=%s batch=%s timed out after %d attempts", doc.ID, job.BatchID, job.Attempts)
	job.Phase = model.PhaseTimedOut
	if job.LastError == "" {
		job.LastError = apperror.Timeout("ingestion.poll", fmt.Sprintf("vendor still processing after %d attempts", job.Attempts)).Error()
	}
	uc.saveJob(ctx, job)

	uc.sink.UpdateAPIProcessingStatus(ctx, doc.CandidateID, doc.JobPostingID, model.APIStatusPending, nil, recheckNote)

	result := uc.result(job, doc, dto.NewCanonicalResume())
	result.Message = recheckNote
	return result
}

func (uc *IngestionUsecase) saveJob(ctx context.Context, job *model.ExtractionJob) {
	if job.ID == uuid.Nil {
		return
	}
	if err := uc.jobs.Update(ctx, job); err != nil {
		uc.logger.Printf("update extraction job=%s phase=%s: %v", job.ID, job.Phase, err)
	}
}

func (uc *IngestionUsecase) result(job *model.ExtractionJob, doc model.SubmittedDocument, record dto.CanonicalResume) *dto.IngestionResultDTO {
	record.Fill()
	return &dto.IngestionResultDTO{
		DocumentID:      doc.ID,
		ExtractionJobID: job.ID,
		Phase:           string(job.Phase),
		Attempts:        job.Attempts,
		Resume:          record,
	}
}

// matchFile finds the entry for our upload: by file id, then by file name,
// then the only entry if there is exactly one.
func matchFile(files []service.BatchFile, fileID, fileName string) (service.BatchFile, bool) {
	if fileID != "" {
		for _, f := range files {
			if f.FileID == fileID {
				return f, true
			}
		}
	}
	if fileName != "" {
		for _, f := range files {
			if f.FileName == fileName {
				return f, true
			}
		}
	}
	if len(files) == 1 {
		return files[0], true
	}
	return service.BatchFile{}, false
}
