package handler

import (
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/fadilmartias/hr-onboarding/internal/util"
	"github.com/gofiber/fiber/v2"
)

type OnboardingHandler struct {
	uc *usecase.OnboardingUsecase
}

func NewOnboardingHandler(uc *usecase.OnboardingUsecase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

func (h *OnboardingHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/onboarding", middleware.RequireRole(string(model.RoleEmployee)))
	group.Get("/tasks", h.ListTasks)
	group.Post("/tasks/:id", h.UpdateTask)
	group.Get("/trainings", h.ListTrainings)
	group.Post("/trainings/:id", h.UpdateTraining)
}

func (h *OnboardingHandler) ListTasks(c *fiber.Ctx) error {
	ident, _ := middleware.CurrentIdentity(c)
	tasks, err := h.uc.ListTasks(c.UserContext(), ident)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Success get tasks", Data: tasks})
}

func (h *OnboardingHandler) UpdateTask(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid task id"})
	}
	var req dto.TaskUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid request body"}, err)
	}
	ident, _ := middleware.CurrentIdentity(c)
	if err := h.uc.SetTaskCompleted(c.UserContext(), ident, id, req.Completed); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Task updated"})
}

func (h *OnboardingHandler) ListTrainings(c *fiber.Ctx) error {
	ident, _ := middleware.CurrentIdentity(c)
	trainings, err := h.uc.ListTrainings(c.UserContext(), ident)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Success get trainings", Data: trainings})
}

func (h *OnboardingHandler) UpdateTraining(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid training id"})
	}
	var req dto.TrainingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid request body"}, err)
	}
	ident, _ := middleware.CurrentIdentity(c)
	if err := h.uc.UpdateTrainingStatus(c.UserContext(), ident, id, req.Status); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Training updated"})
}
