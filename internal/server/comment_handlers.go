package server

import (
	"blogx/internal/models"
	"blogx/internal/repository"
	"blogx/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	p := parsePagination(c, repository.DefaultPageSize)
	comments, err := s.commentService.ListComments(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comments)
}

// GetPostComments handles GET /api/comments/post/:postId and returns the
// post's comments as nested reply trees.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	tree, err := s.commentService.GetPostComments(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tree)
}

// GetPostOfComment handles GET /api/comments/:id/post
func (s *Server) GetPostOfComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.commentService.GetPostOfComment(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		PostID   uint   `json:"post_id"`
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("post_id is required"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		Caller:   s.caller(c),
		PostID:   req.PostID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		Caller:    s.caller(c),
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.Context(), id, s.caller(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllComments handles DELETE /api/comments
func (s *Server) DeleteAllComments(c *fiber.Ctx) error {
	if err := s.commentService.DeleteAllComments(c.Context()); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
