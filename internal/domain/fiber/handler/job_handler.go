package handler

import (
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/fadilmartias/hr-onboarding/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/jobs", h.List)
	router.Get("/jobs/:id", h.Get)
	router.Post("/jobs", middleware.RequireRole(string(model.RoleHR), string(model.RoleAdmin)), h.Create)
	router.Get("/documents/:id/recommendations", middleware.RequireAuth(), h.Recommend)
}

// List serves search-as-you-type over open postings.
func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, page, err := h.uc.List(c.UserContext(), c.Query("q"), c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get job postings",
		Data:       jobs,
		Pagination: page,
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid job posting id"}, err)
	}
	job, err := h.uc.Get(c.UserContext(), uint(id))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Success get job posting", Data: job})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req dto.JobPostingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid request body"}, err)
	}
	ident, _ := middleware.CurrentIdentity(c)
	job, err := h.uc.Create(c.UserContext(), ident, req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Job posting created",
		Data:    job,
	})
}

func (h *JobHandler) Recommend(c *fiber.Ctx) error {
	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid document id"}, err)
	}
	ident, _ := middleware.CurrentIdentity(c)
	jobs, err := h.uc.Recommend(c.UserContext(), ident, documentID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Success get recommendations", Data: jobs})
}
