package handler

import (
	"strconv"
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/fadilmartias/hr-onboarding/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ResumeHandler struct {
	uc *usecase.IngestionUsecase
}

func NewResumeHandler(uc *usecase.IngestionUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/resumes",
		middleware.RequireRole(string(model.RoleCandidate)),
		middleware.RateLimiter(3, time.Minute),
		h.Upload,
	)
	router.Post("/extraction-jobs/:id/recheck",
		middleware.RequireRole(string(model.RoleHR), string(model.RoleAdmin)),
		h.Recheck,
	)
}

// Upload stores the resume and runs extraction before answering. A timed out
// extraction is still a successful upload; HR can re-check it later.
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	jobPostingID, err := strconv.ParseUint(c.FormValue("job_posting_id"), 10, 64)
	if err != nil || jobPostingID == 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "job_posting_id is required",
		}, err)
	}
	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file is required",
		}, err)
	}
	content, err := file.Open()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "cannot read resume file"}, err)
	}
	defer content.Close()

	ident, _ := middleware.CurrentIdentity(c)
	result, err := h.uc.SubmitResume(c.UserContext(), ident, uint(jobPostingID), dto.ResumeUpload{
		Filename: file.Filename,
		MimeType: file.Header.Get(fiber.HeaderContentType),
		Size:     file.Size,
		Content:  content,
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return ingestionResponse(c, result)
}

func (h *ResumeHandler) Recheck(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid extraction job id"}, err)
	}
	result, err := h.uc.Recheck(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return ingestionResponse(c, result)
}

func ingestionResponse(c *fiber.Ctx, result *dto.IngestionResultDTO) error {
	switch model.ExtractionPhase(result.Phase) {
	case model.PhaseCompleted:
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Code:    fiber.StatusCreated,
			Message: "Resume processed",
			Data:    result,
		})
	case model.PhaseTimedOut:
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Code:    fiber.StatusAccepted,
			Message: result.Message,
			Data:    result,
		})
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadGateway,
			Message: "resume parsing failed, the document was kept for review",
			Details: result,
		})
	}
}
