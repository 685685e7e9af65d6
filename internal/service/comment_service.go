package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// CommentService validates comment submissions and assembles the reply tree
// for reads.
type CommentService struct {
	repo repository.CommentRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo repository.CommentRepository) *CommentService {
	return &CommentService{repo: repo}
}

// CreateCommentInput is a comment submission. ParentID is passed through
// unvalidated against PostSlug; a mismatched parent simply never shows up
// in the reconstructed tree.
type CreateCommentInput struct {
	PostSlug string
	Content  string
	ParentID *uint
}

// CreateComment validates and persists a comment. The stored content is
// trimmed; length limits apply to the trimmed form.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.PostSlug == "" {
		return nil, models.NewValidationError("postSlug is required")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content cannot be empty")
	}
	// The limit is in characters, not bytes.
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, models.NewValidationError("Comment content cannot exceed 1000 characters")
	}

	comment := &models.Comment{
		PostSlug: in.PostSlug,
		Content:  content,
		ParentID: in.ParentID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.CommentsCreated.Inc()
	return comment, nil
}

// ListComments returns the reply forest for a post together with the total
// row count (replies included).
func (s *CommentService) ListComments(ctx context.Context, postSlug string) ([]*models.Comment, int64, error) {
	span, ctx := observability.NewSpan(ctx, "CommentService.ListComments")
	defer span.End()

	flat, err := s.repo.ListBySlug(ctx, postSlug)
	if err != nil {
		span.SetError(err)
		return nil, 0, models.NewInternalError(err)
	}

	count, err := s.repo.Count(ctx, postSlug)
	if err != nil {
		span.SetError(err)
		return nil, 0, models.NewInternalError(err)
	}

	return repository.BuildCommentTree(flat), count, nil
}

// LikeComment bumps the like counter. Unlike views this surfaces failure so
// the client can revert its optimistic state.
func (s *CommentService) LikeComment(ctx context.Context, id uint) error {
	if err := s.repo.Like(ctx, id); err != nil {
		observability.CounterUpdateFailures.WithLabelValues("likes").Inc()
		return models.NewInternalError(err)
	}
	observability.CommentLikes.Inc()
	return nil
}

// DeleteComment removes a single comment row without cascading to replies.
func (s *CommentService) DeleteComment(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
