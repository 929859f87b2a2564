package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/repository"
	"github.com/fadilmartias/hr-onboarding/internal/retry"
	"github.com/fadilmartias/hr-onboarding/internal/service"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

func TestApplicationStatusAcceptsFormAndJSON(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	app := seedApplication(t, db)
	hr := dto.Identity{UserID: uuid.New(), Role: string(model.RoleHR)}

	onboarding := usecase.NewOnboardingUsecase(repository.NewUserRepository(db), repository.NewJobPostingRepository(db), repository.NewOnboardingRepository(db))
	gateway := repository.NewGateway(db, onboarding, 0)
	h := NewApplicationHandler(usecase.NewApplicationUsecase(repository.NewApplicationRepository(db), repository.NewParsedResumeRepository(db), gateway))

	server := newServer(hr, h)
	form := url.Values{"status": {"under_review"}, "notes": {"strong portfolio"}}
	req := httptest.NewRequest(http.MethodPost, "/applications/"+itoa(app.ID)+"/status", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	body := mustStatus(t, server, req, fiber.StatusOK)
	if got := gjson.GetBytes(body, "data.notes").String(); got != "strong portfolio" {
		t.Fatalf("notes = %q", got)
	}

	body = mustStatus(t, server, jsonRequest(http.MethodPost, "/applications/"+itoa(app.ID)+"/status", `{"status":"hired"}`), fiber.StatusOK)
	if got := gjson.GetBytes(body, "data.status").String(); got != "hired" {
		t.Fatalf("status = %q", got)
	}
	var user model.User
	db.First(&user, "id = ?", app.CandidateID)
	if user.Role != model.RoleEmployee {
		t.Fatalf("candidate should be an employee now, got %s", user.Role)
	}

	body = mustStatus(t, server, jsonRequest(http.MethodPost, "/applications/"+itoa(app.ID)+"/status", `{"status":"rejected"}`), fiber.StatusConflict)
	if gjson.GetBytes(body, "success").Bool() {
		t.Fatal("conflict must not report success")
	}
	mustStatus(t, server, httptest.NewRequest(http.MethodGet, "/applications/abc", nil), fiber.StatusBadRequest)
	mustStatus(t, server, httptest.NewRequest(http.MethodGet, "/applications/9999", nil), fiber.StatusNotFound)

	candidate := newServer(dto.Identity{UserID: app.CandidateID, Role: string(model.RoleCandidate)}, h)
	mustStatus(t, candidate, httptest.NewRequest(http.MethodGet, "/applications", nil), fiber.StatusForbidden)
}

func TestJobsCreateAndSearch(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	h := NewJobHandler(usecase.NewJobUsecase(repository.NewJobPostingRepository(db), repository.NewParsedResumeRepository(db), nil))
	hr := newServer(dto.Identity{UserID: uuid.New(), Role: string(model.RoleHR)}, h)

	mustStatus(t, hr, jsonRequest(http.MethodPost, "/jobs", `{"title":"Backend Engineer","department":"Engineering"}`), fiber.StatusCreated)
	mustStatus(t, hr, jsonRequest(http.MethodPost, "/jobs", `{"title":"Accountant","department":"Finance"}`), fiber.StatusCreated)
	mustStatus(t, hr, jsonRequest(http.MethodPost, "/jobs", `{"title":"Anything","department":"ALL"}`), fiber.StatusBadRequest)

	body := mustStatus(t, hr, httptest.NewRequest(http.MethodGet, "/jobs?q=engin&page_size=5", nil), fiber.StatusOK)
	if n := gjson.GetBytes(body, "data.#").Int(); n != 1 {
		t.Fatalf("search returned %d postings: %s", n, body)
	}
	if got := gjson.GetBytes(body, "data.0.title").String(); got != "Backend Engineer" {
		t.Fatalf("title = %q", got)
	}

	candidate := newServer(dto.Identity{UserID: uuid.New(), Role: string(model.RoleCandidate)}, h)
	mustStatus(t, candidate, jsonRequest(http.MethodPost, "/jobs", `{"title":"x","department":"y"}`), fiber.StatusForbidden)
	mustStatus(t, candidate, httptest.NewRequest(http.MethodGet, "/jobs/9999", nil), fiber.StatusNotFound)
}

func TestResumeUploadRunsExtraction(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	app := seedApplication(t, db)
	candidate := dto.Identity{UserID: app.CandidateID, Role: string(model.RoleCandidate)}

	ext := stubExtraction{status: "processed", result: `{"personal_info":{"name":"Grace Hopper","email":"grace@example.com"}}`}
	ingestion := usecase.NewIngestionUsecase(ext,
		repository.NewExtractionJobRepository(db),
		repository.NewDocumentRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewJobPostingRepository(db),
		repository.NewGateway(db, nil, 0),
		retry.Policy{MaxAttempts: 1},
		usecase.UploadLimits{Dir: t.TempDir(), MaxBytes: 1 << 20},
	)
	h := NewResumeHandler(ingestion)

	body := mustStatus(t, newServer(candidate, h), resumeRequest(t, app.JobPostingID, "cv.docx", "resume body"), fiber.StatusCreated)
	if got := gjson.GetBytes(body, "data.phase").String(); got != string(model.PhaseCompleted) {
		t.Fatalf("phase = %q: %s", got, body)
	}
	if got := gjson.GetBytes(body, "data.resume.contact.name").String(); got != "Grace Hopper" {
		t.Fatalf("name = %q", got)
	}
	var stored model.Application
	db.First(&stored, app.ID)
	if stored.APIStatus != model.APIStatusCompleted {
		t.Fatalf("api status = %s", stored.APIStatus)
	}

	mustStatus(t, newServer(candidate, h), resumeRequest(t, app.JobPostingID, "cv.exe", "nope"), fiber.StatusBadRequest)
	hr := dto.Identity{UserID: uuid.New(), Role: string(model.RoleHR)}
	mustStatus(t, newServer(hr, h), resumeRequest(t, app.JobPostingID, "cv.docx", "x"), fiber.StatusForbidden)
	mustStatus(t, newServer(hr, h), httptest.NewRequest(http.MethodPost, "/extraction-jobs/"+uuid.NewString()+"/recheck", nil), fiber.StatusNotFound)
}

func TestLoginFailureIsUnauthorized(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	auth := usecase.NewAuthUsecase(repository.NewUserRepository(db))
	h := NewAuthHandler(auth, middleware.NewAuth(session.New(), auth))

	server := fiber.New()
	h.RegisterRoutes(server)

	mustStatus(t, server, jsonRequest(http.MethodPost, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"correct horse"}`), fiber.StatusCreated)
	mustStatus(t, server, jsonRequest(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`), fiber.StatusUnauthorized)
	body := mustStatus(t, server, jsonRequest(http.MethodPost, "/auth/login", `{"email":"ADA@example.com","password":"correct horse"}`), fiber.StatusOK)
	if got := gjson.GetBytes(body, "data.role").String(); got != string(model.RoleCandidate) {
		t.Fatalf("role = %q", got)
	}
	mustStatus(t, server, httptest.NewRequest(http.MethodGet, "/auth/me", nil), fiber.StatusUnauthorized)
}

// --- stubs ---

type routes interface {
	RegisterRoutes(router fiber.Router)
}

func newServer(ident dto.Identity, h routes) *fiber.App {
	app := fiber.New()
	app.Use(middleware.WithIdentity(ident))
	h.RegisterRoutes(app)
	return app
}

func mustStatus(t *testing.T, app *fiber.App, req *http.Request, want int) []byte {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status = %d, want %d: %s", req.Method, req.URL.Path, resp.StatusCode, want, body)
	}
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func resumeRequest(t *testing.T, jobPostingID uint, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("job_posting_id", itoa(jobPostingID))
	part, err := w.CreateFormFile("resume", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write([]byte(content))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/resumes", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "hr.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })
	return db
}

func seedApplication(t *testing.T, db *gorm.DB) *model.Application {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Name: "Grace", Email: uuid.NewString() + "@example.com", Role: model.RoleCandidate, Active: true}
	if err := repository.NewUserRepository(db).Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	job := &model.JobPosting{Title: "Platform Engineer", Department: "Engineering", Open: true}
	if err := repository.NewJobPostingRepository(db).Create(ctx, job); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	app, err := repository.NewApplicationRepository(db).Open(ctx, user.ID, job.ID)
	if err != nil {
		t.Fatalf("open application: %v", err)
	}
	return app
}

type stubExtraction struct {
	status string
	result string
}

func (s stubExtraction) Submit(_ context.Context, doc model.SubmittedDocument) (*service.SubmitResult, error) {
	return &service.SubmitResult{BatchID: "b-1", ExtractionID: "x-1", FileID: "f-1"}, nil
}

func (s stubExtraction) FetchBatchResults(_ context.Context, _, _, fileID string) (*service.BatchResponse, error) {
	return &service.BatchResponse{
		Raw:   []byte(`{"files":[]}`),
		Files: []service.BatchFile{{FileID: fileID, Status: s.status, Result: gjson.Parse(s.result)}},
	}, nil
}
