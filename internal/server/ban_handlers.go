package server

import (
	"log/slog"

	"brightpath/internal/middleware"
	"brightpath/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BanUser handles POST /api/admin/users/:id/ban
func (s *Server) BanUser(c *fiber.Ctx) error {
	return s.setBanned(c, true)
}

// UnbanUser handles DELETE /api/admin/users/:id/ban
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	return s.setBanned(c, false)
}

func (s *Server) setBanned(c *fiber.Ctx, banned bool) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid user ID"))
	}
	if s.redis == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Success: false,
			Message: "Bans are unavailable right now.",
		})
	}

	if banned {
		err = s.bans.Ban(c.UserContext(), userID)
	} else {
		err = s.bans.Unban(c.UserContext(), userID)
	}
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user ban updated",
		slog.String("target_user_id", userID.String()),
		slog.Bool("banned", banned),
	)
	message := "User unbanned"
	if banned {
		message = "User banned"
	}
	return c.JSON(fiber.Map{"success": true, "message": message})
}
