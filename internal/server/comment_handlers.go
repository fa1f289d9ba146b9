package server

import (
	"brightpath/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	ParentCommentID string `json:"parentCommentId"`
	AuthorName      string `json:"authorName"`
	Content         string `json:"content"`
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	thread, err := s.moderationService.ListPublic(c.UserContext(), c.Params("id"))
	return respond(c, fiber.Map{"success": true, "data": thread}, err)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if !parseBody(c, &req) {
		return nil
	}

	comment, err := s.moderationService.CreateComment(c.UserContext(), callerOf(c), service.CreateCommentInput{
		PostID:          c.Params("id"),
		ParentCommentID: req.ParentCommentID,
		AuthorName:      req.AuthorName,
		Content:         req.Content,
	})
	if err != nil {
		return respond(c, nil, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Thanks! Your comment will appear once it has been reviewed.",
		"data":    comment,
	})
}

// ListCommentsForAdmin handles GET /api/admin/comments
func (s *Server) ListCommentsForAdmin(c *fiber.Ctx) error {
	page, err := s.moderationService.ListForAdmin(c.UserContext(), service.AdminListInput{
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
	})
	return respond(c, page, err)
}

// ApproveComment handles POST /api/admin/comments/:id/approve
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	res, err := s.moderationService.Approve(c.UserContext(), c.Params("id"))
	return respond(c, res, err)
}

// UnapproveComment handles POST /api/admin/comments/:id/unapprove
func (s *Server) UnapproveComment(c *fiber.Ctx) error {
	res, err := s.moderationService.Unapprove(c.UserContext(), c.Params("id"))
	return respond(c, res, err)
}

// DeleteComment handles DELETE /api/admin/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	res, err := s.moderationService.Delete(c.UserContext(), c.Params("id"))
	return respond(c, res, err)
}
