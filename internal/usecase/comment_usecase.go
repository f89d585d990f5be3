package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type CommentUsecase struct {
	commentRepo domain.CommentRepository
	videoRepo   domain.VideoRepository
}

func NewCommentUsecase(commentRepo domain.CommentRepository, videoRepo domain.VideoRepository) *CommentUsecase {
	return &CommentUsecase{commentRepo: commentRepo, videoRepo: videoRepo}
}

type CommentPage struct {
	Comments []*domain.Comment `json:"comments"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// List pages through a video's comments. viewerID is uuid.Nil for anonymous
// callers.
func (u *CommentUsecase) List(ctx context.Context, videoID, viewerID uuid.UUID, page, limit int) (*CommentPage, error) {
	if _, err := visibleVideo(ctx, u.videoRepo, videoID, viewerID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)
	comments, total, err := u.commentRepo.ListByVideo(ctx, videoID, limit, (page-1)*limit)
	if err != nil {
		return nil, domain.Internal("failed to load comments", err)
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return &CommentPage{Comments: comments, Total: total, Page: page, Limit: limit}, nil
}

func (u *CommentUsecase) Add(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.BadRequest("content is required")
	}
	if _, err := visibleVideo(ctx, u.videoRepo, videoID, ownerID); err != nil {
		return nil, err
	}
	comment := &domain.Comment{VideoID: videoID, OwnerID: ownerID, Content: content}
	if err := u.commentRepo.Create(ctx, comment); err != nil {
		return nil, domain.Internal("failed to add comment", err)
	}
	return comment, nil
}

func (u *CommentUsecase) owned(ctx context.Context, id, actorID uuid.UUID) (*domain.Comment, error) {
	comment, err := u.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load comment", err)
	}
	if err := AssertOwner(comment, actorID, "comment"); err != nil {
		return nil, err
	}
	return comment, nil
}

func (u *CommentUsecase) Update(ctx context.Context, id, actorID uuid.UUID, content string) (*domain.Comment, error) {
	comment, err := u.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.BadRequest("content is required")
	}
	if err := u.commentRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, domain.Internal("failed to update comment", err)
	}
	comment.Content = content
	return comment, nil
}

func (u *CommentUsecase) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if _, err := u.owned(ctx, id, actorID); err != nil {
		return err
	}
	if err := u.commentRepo.Delete(ctx, id); err != nil {
		return domain.Internal("failed to delete comment", err)
	}
	return nil
}
