package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type LikeUsecase struct {
	likeRepo    domain.LikeRepository
	videoRepo   domain.VideoRepository
	commentRepo domain.CommentRepository
	tweetRepo   domain.TweetRepository
}

func NewLikeUsecase(likeRepo domain.LikeRepository, videoRepo domain.VideoRepository, commentRepo domain.CommentRepository, tweetRepo domain.TweetRepository) *LikeUsecase {
	return &LikeUsecase{likeRepo: likeRepo, videoRepo: videoRepo, commentRepo: commentRepo, tweetRepo: tweetRepo}
}

type LikeToggle struct {
	Liked bool         `json:"liked"`
	Like  *domain.Like `json:"like"`
}

func (u *LikeUsecase) targetExists(ctx context.Context, target domain.LikeTarget, id, userID uuid.UUID) (bool, error) {
	switch target {
	case domain.LikeTargetVideo:
		v, err := u.videoRepo.GetByID(ctx, id)
		return v != nil && (v.IsPublished || v.OwnerID == userID), err
	case domain.LikeTargetComment:
		c, err := u.commentRepo.GetByID(ctx, id)
		return c != nil, err
	case domain.LikeTargetTweet:
		t, err := u.tweetRepo.GetByID(ctx, id)
		return t != nil, err
	default:
		return false, nil
	}
}

// Toggle likes the target, or removes the like if userID already liked it.
func (u *LikeUsecase) Toggle(ctx context.Context, userID uuid.UUID, target domain.LikeTarget, targetID uuid.UUID) (*LikeToggle, error) {
	exists, err := u.targetExists(ctx, target, targetID, userID)
	if err != nil {
		return nil, domain.Internal("failed to load "+string(target), err)
	}
	if !exists {
		return nil, domain.NotFound(string(target) + " not found")
	}

	like, liked, err := u.likeRepo.Toggle(ctx, userID, target, targetID)
	if err != nil {
		return nil, domain.Internal("failed to toggle like", err)
	}
	return &LikeToggle{Liked: liked, Like: like}, nil
}

func (u *LikeUsecase) LikedVideos(ctx context.Context, userID uuid.UUID) ([]*domain.LikedVideo, error) {
	videos, err := u.likeRepo.ListLikedVideos(ctx, userID)
	if err != nil {
		return nil, domain.Internal("failed to load liked videos", err)
	}
	if videos == nil {
		videos = []*domain.LikedVideo{}
	}
	return videos, nil
}
