package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PostService owns post ingestion: validation, slug resolution and
// persistence, plus partial updates.
type PostService struct {
	repo repository.PostRepository
}

// NewPostService creates a new PostService.
func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// CreatePostInput is the untrusted ingestion payload.
type CreatePostInput struct {
	Title         string
	Content       string
	Excerpt       string
	Author        string
	Tags          []string
	Category      string
	Slug          string
	CoverImage    string
	EmbeddedMedia []models.EmbeddedMedia
}

// UpdatePostInput is a partial patch; nil fields are left untouched.
type UpdatePostInput struct {
	Title         *string
	Content       *string
	Excerpt       *string
	Author        *string
	Tags          *[]string
	Category      *string
	CoverImage    *string
	EmbeddedMedia *[]models.EmbeddedMedia
}

// CreatePost runs the ingestion pipeline: a linear sequence of checks with
// early exit on the first failure, then slug resolution and persistence.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()

	if err := s.validateCreate(in); err != nil {
		span.SetError(err)
		return nil, err
	}

	slug, err := s.resolveSlug(ctx, in.Slug, in.Title)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = models.CategoryAll
	}

	post := &models.Post{
		Slug:       slug,
		Title:      in.Title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		Author:     in.Author,
		CoverImage: in.CoverImage,
		Category:   category,
	}
	post.SetTagList(in.Tags)
	post.SetMediaList(in.EmbeddedMedia)

	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			// The pre-check raced with a concurrent insert.
			observability.PostsRejected.WithLabelValues("slug_conflict").Inc()
			return nil, models.NewConflictError("A post with this slug already exists")
		}
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	span.AddAttributes(attribute.String("post.slug", post.Slug))
	observability.PostsCreated.Inc()
	middleware.Logger.InfoContext(ctx, "post created",
		slog.String("slug", post.Slug),
		slog.String("category", post.Category),
	)

	return post, nil
}

func (s *PostService) validateCreate(in CreatePostInput) error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Content) == "" ||
		strings.TrimSpace(in.Excerpt) == "" ||
		strings.TrimSpace(in.Author) == "" {
		observability.PostsRejected.WithLabelValues("missing_fields").Inc()
		return models.NewValidationError("Missing required fields: title, content, excerpt, author")
	}

	if len(in.Tags) == 0 {
		observability.PostsRejected.WithLabelValues("invalid_tags").Inc()
		return models.NewValidationError("Tags must be a non-empty array")
	}

	if in.Category != "" {
		if err := validateCategory(in.Category); err != nil {
			observability.PostsRejected.WithLabelValues("invalid_category").Inc()
			return err
		}
	}

	if err := validateMedia(in.EmbeddedMedia); err != nil {
		observability.PostsRejected.WithLabelValues("invalid_media").Inc()
		return err
	}

	return nil
}

// validateCategory accepts members of the fixed set; the catch-all sentinel
// is not assignable, it is only ever applied as the default.
func validateCategory(category string) error {
	if category == models.CategoryAll || !models.IsValidCategory(category) {
		return models.NewInvalidCategoryError()
	}
	return nil
}

func validateMedia(media []models.EmbeddedMedia) error {
	for _, m := range media {
		if strings.TrimSpace(m.URL) == "" {
			return models.NewValidationError("Each embedded media item must have a valid url")
		}
		if !contains(models.MediaTypes, m.Type) {
			return models.NewValidationError("Media type must be one of: " + strings.Join(models.MediaTypes, ", "))
		}
		if m.Position != "" && !contains(models.MediaPositions, m.Position) {
			return models.NewValidationError("Media position must be one of: " + strings.Join(models.MediaPositions, ", "))
		}
	}
	return nil
}

// resolveSlug uses the caller-provided slug or derives one from the title.
// On collision it appends the current unix-millisecond timestamp and
// re-checks once; a second collision is pathological and rejected.
func (s *PostService) resolveSlug(ctx context.Context, provided, title string) (string, error) {
	slug := provided
	if slug == "" {
		slug = Slugify(title)
	}

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if existing == nil {
		return slug, nil
	}

	slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
	existing, err = s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if existing != nil {
		observability.PostsRejected.WithLabelValues("slug_conflict").Inc()
		return "", models.NewConflictError("Unable to generate unique slug. Please provide a custom slug.")
	}

	return slug, nil
}

// UpdatePost applies a partial patch to the post with the given slug.
// Provided fields are validated with the same rules as creation. Returns
// nil, nil when the slug does not exist.
func (s *PostService) UpdatePost(ctx context.Context, slug string, in UpdatePostInput) (*models.Post, error) {
	fields := map[string]any{}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Excerpt != nil {
		fields["excerpt"] = *in.Excerpt
	}
	if in.Author != nil {
		fields["author"] = *in.Author
	}
	if in.Tags != nil {
		if len(*in.Tags) == 0 {
			return nil, models.NewValidationError("Tags must be a non-empty array")
		}
		var p models.Post
		p.SetTagList(*in.Tags)
		fields["tags"] = p.Tags
	}
	if in.Category != nil {
		if err := validateCategory(*in.Category); err != nil {
			return nil, err
		}
		fields["category"] = *in.Category
	}
	if in.CoverImage != nil {
		fields["cover_image"] = *in.CoverImage
	}
	if in.EmbeddedMedia != nil {
		if err := validateMedia(*in.EmbeddedMedia); err != nil {
			return nil, err
		}
		var p models.Post
		p.SetMediaList(*in.EmbeddedMedia)
		fields["embedded_media"] = p.EmbeddedMedia
	}

	post, err := s.repo.Update(ctx, slug, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, models.NewConflictError("A post with this slug already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// RecordView bumps the view counter for a post. Best-effort: failures are
// logged and counted, never surfaced to the reader.
func (s *PostService) RecordView(ctx context.Context, slug string) {
	if err := s.repo.IncrementViews(ctx, slug); err != nil {
		observability.CounterUpdateFailures.WithLabelValues("views").Inc()
		middleware.Logger.WarnContext(ctx, "view increment failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
