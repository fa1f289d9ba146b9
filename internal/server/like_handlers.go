package server

import (
	"github.com/gofiber/fiber/v2"
)

type batchStatusRequest struct {
	TargetIDs []string `json:"targetIds"`
}

// TogglePostLike handles POST /api/posts/:id/like
func (s *Server) TogglePostLike(c *fiber.Ctx) error {
	res, err := s.likeService.TogglePostLike(c.UserContext(), callerOf(c), c.Params("id"))
	return respond(c, res, err)
}

// ToggleCommentLike handles POST /api/comments/:id/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	res, err := s.likeService.ToggleCommentLike(c.UserContext(), callerOf(c), c.Params("id"))
	return respond(c, res, err)
}

// GetPostLikeStatus handles POST /api/posts/likes/status
func (s *Server) GetPostLikeStatus(c *fiber.Ctx) error {
	var req batchStatusRequest
	if !parseBody(c, &req) {
		return nil
	}
	items, err := s.likeService.GetBatchLikeStatus(c.UserContext(), callerOf(c), req.TargetIDs)
	return respond(c, fiber.Map{"success": true, "items": items}, err)
}

// GetCommentLikeStatus handles POST /api/comments/likes/status
func (s *Server) GetCommentLikeStatus(c *fiber.Ctx) error {
	var req batchStatusRequest
	if !parseBody(c, &req) {
		return nil
	}
	items, err := s.likeService.GetCommentBatchLikeStatus(c.UserContext(), callerOf(c), req.TargetIDs)
	return respond(c, fiber.Map{"success": true, "items": items}, err)
}
