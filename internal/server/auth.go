package server

import (
	"strings"

	"brightpath/internal/middleware"
	"brightpath/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const callerLocal = "caller"

// Identify resolves the caller from a bearer token when one is present.
// Missing or invalid tokens leave the request anonymous; routes that need an
// identity enforce it themselves.
func (s *Server) Identify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := s.callerFromToken(bearerToken(c))
		if ok {
			userID := caller.UserID.String()
			c.Locals(callerLocal, caller)
			// Read by the tracing and rate limit middleware
			c.Locals("userID", userID)
			c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))
		}
		return c.Next()
	}
}

// AuthRequired rejects anonymous callers with 401. Must run after Identify.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !callerOf(c).Authenticated() {
			return models.RespondWithError(c, models.NewUnauthenticatedError("Authorization required"))
		}
		return c.Next()
	}
}

// AdminRequired rejects callers without the admin role. Must run after Identify.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := callerOf(c)
		if !caller.Authenticated() {
			return models.RespondWithError(c, models.NewUnauthenticatedError("Authorization required"))
		}
		if !caller.IsAdmin() {
			return models.RespondWithError(c, models.NewPermissionDeniedError("Admin access required", nil))
		}
		return c.Next()
	}
}

func callerOf(c *fiber.Ctx) models.Caller {
	caller, _ := c.Locals(callerLocal).(models.Caller)
	return caller
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// callerFromToken verifies an HS256 token from the identity provider. The
// subject is the user's UUID; the optional role claim grants admin.
func (s *Server) callerFromToken(tokenString string) (models.Caller, bool) {
	if tokenString == "" {
		return models.Caller{}, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.Caller{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Caller{}, false
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.Caller{}, false
	}
	userID, err := uuid.Parse(sub)
	if err != nil || userID == uuid.Nil {
		return models.Caller{}, false
	}

	role, _ := claims["role"].(string)
	return models.Caller{UserID: userID, Role: role}, true
}
