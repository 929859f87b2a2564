package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Provisioner runs the hire side effects for an application that has just
// become hired. Every step it performs must be safe to repeat.
type Provisioner interface {
	Provision(ctx context.Context, app *model.Application) error
}

// Gateway is the write path used by ingestion and the status workflow. Its
// methods report success as a bool and log failures instead of returning them.
type Gateway struct {
	db           *gorm.DB
	provisioner  Provisioner
	rawWarnBytes int
	logger       *log.Logger
}

func NewGateway(db *gorm.DB, provisioner Provisioner, rawWarnBytes int) *Gateway {
	return &Gateway{
		db:           db,
		provisioner:  provisioner,
		rawWarnBytes: rawWarnBytes,
		logger:       log.New(os.Stdout, "[gateway] ", log.LstdFlags),
	}
}

// SaveCanonicalRecord stores one parsed resume per document. A second save for
// the same document is a no-op that still reports success.
func (g *Gateway) SaveCanonicalRecord(ctx context.Context, record dto.CanonicalResume, doc model.SubmittedDocument) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Printf("save parsed_resumes document=%s panicked: %v", doc.ID, r)
			ok = false
		}
	}()

	if err := g.ready(ctx, &model.ParsedResume{}); err != nil {
		g.logger.Printf("save parsed_resumes document=%s candidate=%s: %v", doc.ID, doc.CandidateID, err)
		return false
	}
	if g.rawWarnBytes > 0 && len(record.Raw) > g.rawWarnBytes {
		g.logger.Printf("warning: raw payload for document=%s is %d bytes (threshold %d)", doc.ID, len(record.Raw), g.rawWarnBytes)
	}

	row, err := toParsedResume(record, doc)
	if err != nil {
		g.logger.Printf("encode parsed_resumes document=%s: %v", doc.ID, err)
		return false
	}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		g.logger.Printf("insert parsed_resumes document=%s candidate=%s: %v", doc.ID, doc.CandidateID, err)
		return false
	}
	return true
}

// UpdateAPIProcessingStatus upserts the pipeline's view of an application.
// The last write wins; HR-owned columns are never touched.
func (g *Gateway) UpdateAPIProcessingStatus(ctx context.Context, candidateID uuid.UUID, jobPostingID uint, status model.APIStatus, raw []byte, errMsg string) bool {
	if err := g.ready(ctx, &model.Application{}); err != nil {
		g.logger.Printf("upsert applications candidate=%s job=%d: %v", candidateID, jobPostingID, err)
		return false
	}

	app := model.Application{
		CandidateID:  candidateID,
		JobPostingID: jobPostingID,
		Status:       model.StatusSubmitted,
		APIStatus:    status,
		APIError:     errMsg,
		APIResponse:  jsonColumn(raw),
	}
	err := g.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_posting_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"api_status", "api_response", "api_error", "updated_at"}),
	}).Create(&app).Error
	if err != nil {
		g.logger.Printf("upsert applications candidate=%s job=%d status=%s: %v", candidateID, jobPostingID, status, err)
		return false
	}
	return true
}

// UpdateApplicationStatus writes HR's status and notes. Moving into hired
// from any other status provisions the employee once, in the same call.
// Provisioning errors are recorded on the application and do not undo the
// status change.
func (g *Gateway) UpdateApplicationStatus(ctx context.Context, applicationID uint, status model.ApplicationStatus, notes string) bool {
	var app model.Application
	if err := g.db.WithContext(ctx).First(&app, "id = ?", applicationID).Error; err != nil {
		g.logger.Printf("load applications id=%d: %v", applicationID, err)
		return false
	}
	prev := app.Status

	err := g.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", applicationID).Updates(map[string]any{
		"status":     status,
		"notes":      notes,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		g.logger.Printf("update applications id=%d status=%s: %v", applicationID, status, err)
		return false
	}
	app.Status = status
	app.Notes = notes

	if status == model.StatusHired && prev != model.StatusHired {
		if err := g.provision(ctx, &app); err != nil {
			g.logger.Printf("provision application id=%d candidate=%s: %v", app.ID, app.CandidateID, err)
		}
	}
	return true
}

// Provision re-runs the hire side effects for an already hired application.
func (g *Gateway) Provision(ctx context.Context, applicationID uint) error {
	var app model.Application
	if err := g.db.WithContext(ctx).First(&app, "id = ?", applicationID).Error; err != nil {
		return fmt.Errorf("load application: %w", err)
	}
	if app.Status != model.StatusHired {
		return fmt.Errorf("application %d is %s, not hired", app.ID, app.Status)
	}
	return g.provision(ctx, &app)
}

func (g *Gateway) provision(ctx context.Context, app *model.Application) error {
	if g.provisioner == nil {
		return errors.New("no provisioner configured")
	}
	provErr := g.provisioner.Provision(ctx, app)

	msg := ""
	if provErr != nil {
		msg = provErr.Error()
	}
	err := g.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", app.ID).
		Update("provisioning_error", msg).Error
	if err != nil {
		g.logger.Printf("record provisioning_error id=%d: %v", app.ID, err)
	}
	app.ProvisioningError = msg
	return provErr
}

// ready checks the connection and that the target table exists.
func (g *Gateway) ready(ctx context.Context, table any) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if !g.db.WithContext(ctx).Migrator().HasTable(table) {
		return fmt.Errorf("table for %T does not exist", table)
	}
	return nil
}

func toParsedResume(record dto.CanonicalResume, doc model.SubmittedDocument) (model.ParsedResume, error) {
	record.Fill()
	row := model.ParsedResume{
		DocumentID:   doc.ID,
		CandidateID:  doc.CandidateID,
		JobPostingID: doc.JobPostingID,
		Filename:     doc.OriginalFilename,
		Name:         record.Contact.Name,
		Email:        record.Contact.Email,
		Phone:        record.Contact.Phone,
		Address:      record.Contact.Address,
		RawPayload:   jsonColumn(record.Raw),
	}
	lists := []struct {
		dst *datatypes.JSON
		src any
	}{
		{&row.Links, record.Contact.Links},
		{&row.Experience, record.Experience},
		{&row.Education, record.Education},
		{&row.Skills, record.Skills},
		{&row.Certificates, record.Certificates},
	}
	for _, l := range lists {
		b, err := json.Marshal(l.src)
		if err != nil {
			return row, err
		}
		*l.dst = datatypes.JSON(b)
	}
	return row, nil
}

// jsonColumn keeps valid JSON as-is and stores anything else as a JSON string.
func jsonColumn(raw []byte) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return datatypes.JSON(raw)
	}
	b, _ := json.Marshal(string(raw))
	return datatypes.JSON(b)
}
