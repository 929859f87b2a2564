package middleware

import (
	"context"
	"log"

	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	identityKey    = "identity"
	sessionUserKey = "user_id"
)

type IdentityLoader interface {
	Identity(ctx context.Context, id uuid.UUID) (dto.Identity, error)
}

// Auth binds cookie sessions to request identities.
type Auth struct {
	store  *session.Store
	loader IdentityLoader
}

func NewAuth(store *session.Store, loader IdentityLoader) *Auth {
	return &Auth{store: store, loader: loader}
}

// Authenticate resolves the session's user into the request identity. It
// never rejects; use RequireAuth or RequireRole for that.
func (a *Auth) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := a.store.Get(c)
		if err != nil {
			log.Printf("Could not load session: %v", err)
			return c.Next()
		}
		raw, ok := sess.Get(sessionUserKey).(string)
		if !ok {
			return c.Next()
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = sess.Destroy()
			return c.Next()
		}
		ident, err := a.loader.Identity(c.UserContext(), id)
		if err != nil {
			_ = sess.Destroy()
			return c.Next()
		}
		c.Locals(identityKey, ident)
		return c.Next()
	}
}

// SignIn starts a fresh session for userID.
func (a *Auth) SignIn(c *fiber.Ctx, userID uuid.UUID) error {
	sess, err := a.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID.String())
	return sess.Save()
}

func (a *Auth) SignOut(c *fiber.Ctx) error {
	sess, err := a.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

func CurrentIdentity(c *fiber.Ctx) (dto.Identity, bool) {
	ident, ok := c.Locals(identityKey).(dto.Identity)
	return ident, ok
}

// WithIdentity sets a fixed identity on every request.
func WithIdentity(ident dto.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(identityKey, ident)
		return c.Next()
	}
}

func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentIdentity(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Please sign in first",
			})
		}
		return c.Next()
	}
}

func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := CurrentIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Please sign in first",
			})
		}
		if !ident.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "You do not have access to this resource",
			})
		}
		return c.Next()
	}
}
