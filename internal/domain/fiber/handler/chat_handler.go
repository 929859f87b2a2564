package handler

import (
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/fadilmartias/hr-onboarding/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	uc *usecase.ChatUsecase
}

func NewChatHandler(uc *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/chat", middleware.RequireAuth(), middleware.RateLimiter(10, time.Minute), h.Send)
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "invalid request body"}, err)
	}
	ident, _ := middleware.CurrentIdentity(c)
	reply, err := h.uc.Send(c.UserContext(), ident, req.Message)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Success", Data: reply})
}
