package middleware

import (
	"strings"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/models"
	"github.com/anjiri1684/coded/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"
)

// Protected requires a live session. The token is read from the bearer
// header, the session cookie, or the token query parameter (websocket
// clients cannot set headers).
func Protected(auth *services.AuthService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    auth.Secret(),
		SigningMethod: "HS256",
		TokenLookup:   "header:Authorization,cookie:" + services.SessionCookieName + ",query:token",
		AuthScheme:    "Bearer",
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token := c.Locals("user").(*jwt.Token)
			claims := token.Claims.(jwt.MapClaims)
			sid, err := services.SessionIDFromClaims(claims)
			if err != nil {
				return err
			}
			user, err := auth.SessionUser(c.UserContext(), sid)
			if err != nil {
				return err
			}
			attach(c, user, sid)
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "Missing or malformed session token"}
	}
	return &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "Invalid or expired session"}
}

// Optional resolves the session when one is presented and otherwise lets the
// request through anonymously.
func Optional(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			raw = c.Cookies(services.SessionCookieName)
		}
		if raw == "" {
			return c.Next()
		}
		user, sid, err := auth.ResolveToken(c.UserContext(), raw)
		if err != nil {
			if !apperr.IsUnauthenticated(err) {
				return err
			}
			return c.Next()
		}
		attach(c, user, sid)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func attach(c *fiber.Ctx, user *models.User, sid uuid.UUID) {
	c.SetUserContext(identity.WithUser(c.UserContext(), user))
	c.Locals(LocalUserID, user.ID)
	c.Locals(LocalSessionID, sid)
}

// SessionID returns the session resolved for this request.
func SessionID(c *fiber.Ctx) (uuid.UUID, bool) {
	sid, ok := c.Locals(LocalSessionID).(uuid.UUID)
	return sid, ok
}
