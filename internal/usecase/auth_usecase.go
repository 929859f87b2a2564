package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type AuthUsecase struct {
	users UserStore
	cost  int
}

func NewAuthUsecase(users UserStore) *AuthUsecase {
	return &AuthUsecase{users: users, cost: bcrypt.DefaultCost}
}

// Register creates an active candidate account.
func (uc *AuthUsecase) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	const op = "auth.register"
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, apperror.Validation(op, "name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.Validation(op, "email is invalid")
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperror.Validation(op, "password must be at least 8 characters")
	}

	if _, err := uc.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict(op, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Persistence(op, "look up email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.cost)
	if err != nil {
		return nil, apperror.New(apperror.KindInternal, op, "hash password", err)
	}
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleCandidate,
		Active:       true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, apperror.Persistence(op, "create user", err)
	}
	return user, nil
}

func (uc *AuthUsecase) Login(ctx context.Context, req dto.LoginRequest) (*model.User, error) {
	const op = "auth.login"
	invalid := apperror.New(apperror.KindValidation, op, "invalid email or password", nil)

	user, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, apperror.Persistence(op, "look up user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalid
	}
	if !user.Active {
		return nil, apperror.Forbidden(op, "account is not active")
	}
	return user, nil
}

// Identity reloads the user behind a session so role changes, like a hire,
// apply on the next request.
func (uc *AuthUsecase) Identity(ctx context.Context, id uuid.UUID) (dto.Identity, error) {
	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return dto.Identity{}, err
	}
	if !user.Active {
		return dto.Identity{}, apperror.Forbidden("auth.identity", "account is not active")
	}
	return IdentityOf(user), nil
}

func IdentityOf(user *model.User) dto.Identity {
	return dto.Identity{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Department: user.Department,
	}
}
