package server

import (
	"github.com/gofiber/fiber/v2"
)

type viewRequest struct {
	PostID string `json:"postId"`
	Slug   string `json:"slug"`
}

// IncrementView handles POST /api/posts/views
func (s *Server) IncrementView(c *fiber.Ctx) error {
	var req viewRequest
	if !parseBody(c, &req) {
		return nil
	}
	res, err := s.viewService.IncrementView(c.UserContext(), req.PostID, req.Slug)
	return respond(c, res, err)
}
