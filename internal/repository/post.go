// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// ErrDuplicateSlug is returned by Create when the slug is already taken.
var ErrDuplicateSlug = errors.New("a post with this slug already exists")

// PostRepository defines the interface for post data operations.
// Point lookups signal absence with a nil post and nil error; errors are
// reserved for store failures.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Post, error)
	ListByTag(ctx context.Context, tag string) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
	Categories(ctx context.Context) ([]string, error)
	IncrementViews(ctx context.Context, slug string) error
	Update(ctx context.Context, slug string, fields map[string]any) (*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	if post.PublishedAt.IsZero() {
		post.PublishedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = now
	}
	err := r.db.WithContext(ctx).Create(post).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	var posts []*models.Post
	q := r.db.WithContext(ctx).Order("published_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("list_by_category", "posts")()

	var posts []*models.Post
	q := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("published_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&posts).Error
	return posts, err
}

// ListByTag matches against the JSON-serialized tags blob with a substring
// LIKE. A tag that is a substring of another tag's quoted form produces
// false positives; that is a known limitation of the storage format, not
// something this layer tries to paper over.
func (r *postRepository) ListByTag(ctx context.Context, tag string) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("tags LIKE ?", `%"`+tag+`"%`).
		Order("published_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *postRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("category = ?", category).
		Count(&count).Error
	return count, err
}

func (r *postRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// IncrementViews bumps the view counter in a single atomic statement.
// A missing slug is not an error; the statement simply affects zero rows.
func (r *postRepository) IncrementViews(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("slug = ?", slug).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Update patches only the provided columns and always refreshes updated_at.
// Returns nil, nil when the slug does not exist.
func (r *postRepository) Update(ctx context.Context, slug string, fields map[string]any) (*models.Post, error) {
	fields["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("slug = ?", slug).
		Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSlug
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	// Read-back is not atomic with the update; a concurrent delete in
	// between surfaces as not found, which callers treat as absence.
	return r.GetBySlug(ctx, slug)
}
