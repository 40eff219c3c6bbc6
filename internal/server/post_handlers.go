package server

import (
	"mime/multipart"
	"strings"

	"blogx/internal/models"
	"blogx/internal/repository"
	"blogx/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm is the parsed body of a create/update post request. Posts are
// submitted as multipart form data so an image can ride along; a plain JSON
// body is accepted when there is no image.
type postForm struct {
	Title    string
	Content  string
	Category string
	Image    *service.ImageUpload
	file     multipart.File
}

func (f *postForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}

func parsePostForm(c *fiber.Ctx) (*postForm, error) {
	contentType := c.Get(fiber.HeaderContentType)
	if strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		var req struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Category string `json:"category"`
		}
		if err := c.BodyParser(&req); err != nil {
			return nil, models.NewValidationError("Invalid request body")
		}
		return &postForm{Title: req.Title, Content: req.Content, Category: req.Category}, nil
	}

	form := &postForm{
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		Category: c.FormValue("category"),
	}

	header, err := c.FormFile("image")
	if err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			return nil, models.NewValidationError("Invalid image upload")
		}
		form.file = file
		form.Image = &service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Content:     file,
		}
	}
	return form, nil
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, repository.DefaultPageSize)
	posts, err := s.postService.ListPosts(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, err := parsePostForm(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer form.close()

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		Caller:   s.caller(c),
		Title:    form.Title,
		Content:  form.Content,
		Category: form.Category,
		Image:    form.Image,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	form, err := parsePostForm(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer form.close()

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		Caller:   s.caller(c),
		PostID:   id,
		Title:    form.Title,
		Content:  form.Content,
		Category: form.Category,
		Image:    form.Image,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.Context(), id, s.caller(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllPosts handles DELETE /api/posts
func (s *Server) DeleteAllPosts(c *fiber.Ctx) error {
	if err := s.postService.DeleteAllPosts(c.Context()); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	p := parsePagination(c, repository.DefaultPageSize)
	posts, err := s.postService.GetUserPosts(c.Context(), user.Username, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}
