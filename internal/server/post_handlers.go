package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts (API key required).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Title         string                 `json:"title"`
		Content       string                 `json:"content"`
		Excerpt       string                 `json:"excerpt"`
		Author        string                 `json:"author"`
		Tags          []string               `json:"tags"`
		Category      string                 `json:"category"`
		Slug          string                 `json:"slug"`
		CoverImage    string                 `json:"coverImage"`
		EmbeddedMedia []models.EmbeddedMedia `json:"embeddedMedia"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Author:        req.Author,
		Tags:          req.Tags,
		Category:      req.Category,
		Slug:          req.Slug,
		CoverImage:    req.CoverImage,
		EmbeddedMedia: req.EmbeddedMedia,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created successfully",
		"post":    models.NewPostView(post),
	})
}

// GetPosts handles GET /api/posts with optional limit, offset, category and
// tag query parameters. Without a limit the full list is returned.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	limit, offset := parseLimitOffset(c)
	category := c.Query("category")
	tag := c.Query("tag")

	var (
		posts []*models.Post
		total int64
		err   error
	)
	switch {
	case tag != "":
		posts, err = s.postRepo.ListByTag(ctx, tag)
		total = int64(len(posts))
	case category != "" && category != models.CategoryAll:
		posts, err = s.postRepo.ListByCategory(ctx, category, limit, offset)
		if err == nil {
			total, err = s.postRepo.CountByCategory(ctx, category)
		}
	default:
		posts, err = s.postRepo.List(ctx, limit, offset)
		if err == nil {
			total, err = s.postRepo.Count(ctx)
		}
	}
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(posts),
		"total":   total,
		"posts":   models.NewPostViews(posts),
	})
}

// GetPost handles GET /api/posts/:slug. Each successful read bumps the view
// counter best-effort; the returned views value is the pre-read count.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	slug := c.Params("slug")

	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", slug))
	}

	s.postService.RecordView(ctx, slug)

	return c.JSON(models.NewPostView(post))
}

// UpdatePost handles PUT /api/posts/:slug (API key required). Only fields
// present in the body are patched.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	slug := c.Params("slug")

	var req struct {
		Title         *string                 `json:"title"`
		Content       *string                 `json:"content"`
		Excerpt       *string                 `json:"excerpt"`
		Author        *string                 `json:"author"`
		Tags          *[]string               `json:"tags"`
		Category      *string                 `json:"category"`
		CoverImage    *string                 `json:"coverImage"`
		EmbeddedMedia *[]models.EmbeddedMedia `json:"embeddedMedia"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, slug, service.UpdatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Author:        req.Author,
		Tags:          req.Tags,
		Category:      req.Category,
		CoverImage:    req.CoverImage,
		EmbeddedMedia: req.EmbeddedMedia,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", slug))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    models.NewPostView(post),
	})
}

// GetCategories handles GET /api/categories: the categories currently in
// use, ordered alphabetically.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.postRepo.Categories(c.UserContext())
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}
