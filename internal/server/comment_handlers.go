package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments?postSlug=... and returns the reply
// tree together with the total comment count for the post.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postSlug := c.Query("postSlug")
	if postSlug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("postSlug parameter is required"))
	}

	comments, count, err := s.commentService.ListComments(ctx, postSlug)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"comments": comments,
		"count":    count,
	})
}

// CreateComment handles POST /api/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		PostSlug string `json:"postSlug"`
		Content  string `json:"content"`
		ParentID *uint  `json:"parentId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		PostSlug: req.PostSlug,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// LikeComment handles POST /api/comments/:id/like.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.LikeComment(ctx, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteComment handles DELETE /api/comments/:id (API key required).
// Removes the single row; replies keep their dangling parent reference.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
