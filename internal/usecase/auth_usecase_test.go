package usecase

import (
	"context"
	"testing"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	users := newStubUsers()
	uc := NewAuthUsecase(users)
	uc.cost = bcrypt.MinCost
	ctx := context.Background()

	user, err := uc.Register(ctx, dto.RegisterRequest{Name: "Ada", Email: " Ada@Example.com ", Password: "analytical"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.RoleCandidate || !user.Active || user.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "analytical" {
		t.Fatal("password must be hashed")
	}

	if _, err := uc.Register(ctx, dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "analytical"}); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("duplicate email: %v", err)
	}

	got, err := uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "analytical"})
	if err != nil || got.ID != user.ID {
		t.Fatalf("Login = %+v, %v", got, err)
	}
	if _, err := uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "wrong-password"}); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "analytical"}); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("unknown user: %v", err)
	}

	ident, err := uc.Identity(ctx, user.ID)
	if err != nil || ident.Role != "candidate" || ident.Email != "ada@example.com" {
		t.Fatalf("Identity = %+v, %v", ident, err)
	}

	users.byID[user.ID].Active = false
	if _, err := uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "analytical"}); !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("inactive account: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	uc := NewAuthUsecase(newStubUsers())
	cases := []dto.RegisterRequest{
		{Name: "", Email: "a@example.com", Password: "longenough"},
		{Name: "A", Email: "not-an-email", Password: "longenough"},
		{Name: "A", Email: "a@example.com", Password: "short"},
	}
	for _, req := range cases {
		if _, err := uc.Register(context.Background(), req); !apperror.Is(err, apperror.KindValidation) {
			t.Fatalf("Register(%+v) err = %v, want validation", req, err)
		}
	}
}

// --- stubs ---

type stubUsers struct {
	byID map[uuid.UUID]*model.User
}

func newStubUsers() *stubUsers {
	return &stubUsers{byID: map[uuid.UUID]*model.User{}}
}

func (s *stubUsers) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	s.byID[user.ID] = user
	return nil
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
