package handler

import (
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/fadilmartias/hr-onboarding/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	uc *usecase.ApplicationUsecase
}

func NewApplicationHandler(uc *usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/applications", middleware.RequireRole(string(model.RoleHR), string(model.RoleAdmin)))
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/:id/status", h.UpdateStatus)
	group.Post("/:id/provision", h.Provision)
}

func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	ident, _ := middleware.CurrentIdentity(c)
	apps, page, err := h.uc.List(c.UserContext(), ident, c.Query("status"), c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get applications",
		Data:       apps,
		Pagination: page,
	})
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid application id"})
	}
	ident, _ := middleware.CurrentIdentity(c)
	app, err := h.uc.Get(c.UserContext(), ident, id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Success get application", Data: app})
}

// UpdateStatus accepts the HR review form or a JSON body.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid application id"})
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid request body"}, err)
	}
	ident, _ := middleware.CurrentIdentity(c)
	app, err := h.uc.UpdateStatus(c.UserContext(), ident, id, req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Application status updated", Data: app})
}

func (h *ApplicationHandler) Provision(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid application id"})
	}
	ident, _ := middleware.CurrentIdentity(c)
	app, err := h.uc.RetryProvisioning(c.UserContext(), ident, id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Employee provisioned", Data: app})
}

func idParam(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
