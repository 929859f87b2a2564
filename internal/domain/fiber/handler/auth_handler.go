package handler

import (
	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/fadilmartias/hr-onboarding/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	uc   *usecase.AuthUsecase
	auth *middleware.Auth
}

func NewAuthHandler(uc *usecase.AuthUsecase, auth *middleware.Auth) *AuthHandler {
	return &AuthHandler{uc: uc, auth: auth}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/auth")
	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/logout", h.Logout)
	group.Get("/me", middleware.RequireAuth(), h.Me)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	user, err := h.uc.Register(c.UserContext(), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.auth.SignIn(c, user.ID); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "could not start session"}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Account created",
		Data:    usecase.IdentityOf(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	user, err := h.uc.Login(c.UserContext(), req)
	if err != nil {
		if apperror.Is(err, apperror.KindValidation) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: apperror.UserMessage(err),
			}, err)
		}
		return util.AppErrorResponse(c, err)
	}
	if err := h.auth.SignIn(c, user.ID); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "could not start session"}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Signed in",
		Data:    usecase.IdentityOf(user),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.SignOut(c); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "could not end session"}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Signed out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ident, _ := middleware.CurrentIdentity(c)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get current user",
		Data:    ident,
	})
}
