package repository

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// usernamePool is the fixed set of pseudonymous display names. Comments have
// no visitor identity; each one gets an independent uniform sample.
var usernamePool = []string{
	"CosmicCoder",
	"PixelPioneer",
	"ByteBard",
	"QuantumQuill",
	"NeonNomad",
}

// RandomUsername returns a display name sampled uniformly from the fixed pool.
func RandomUsername() string {
	return usernamePool[rand.IntN(len(usernamePool))]
}

// UsernamePool returns a copy of the fixed display-name pool.
func UsernamePool() []string {
	out := make([]string, len(usernamePool))
	copy(out, usernamePool)
	return out
}

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListBySlug(ctx context.Context, postSlug string) ([]*models.Comment, error)
	Like(ctx context.Context, id uint) error
	Count(ctx context.Context, postSlug string) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create persists a new comment, assigning a pooled username when none is
// set. Likes start at zero.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.Username == "" {
		comment.Username = RandomUsername()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListBySlug returns the flat comment rows for a post ordered oldest first.
// The created_at ordering is what lets the tree builder attach children in
// a single pass.
func (r *commentRepository) ListBySlug(ctx context.Context, postSlug string) ([]*models.Comment, error) {
	defer observability.TrackQuery("list_by_slug", "comments")()

	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_slug = ?", postSlug).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// Like bumps the like counter in a single atomic statement so concurrent
// likes never lose updates. There is no per-visitor de-duplication.
func (r *commentRepository) Like(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}

// Count returns the number of comment rows for a post, replies included.
func (r *commentRepository) Count(ctx context.Context, postSlug string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_slug = ?", postSlug).
		Count(&count).Error
	return count, err
}

// Delete removes exactly one row. Replies are not cascaded; they keep their
// dangling parent reference and drop out of the reconstructed tree.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}
