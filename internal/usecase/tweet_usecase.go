package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type TweetUsecase struct {
	tweetRepo domain.TweetRepository
	userRepo  domain.UserRepository
}

func NewTweetUsecase(tweetRepo domain.TweetRepository, userRepo domain.UserRepository) *TweetUsecase {
	return &TweetUsecase{tweetRepo: tweetRepo, userRepo: userRepo}
}

func (u *TweetUsecase) Create(ctx context.Context, ownerID uuid.UUID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.BadRequest("content is required")
	}
	tweet := &domain.Tweet{OwnerID: ownerID, Content: content}
	if err := u.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, domain.Internal("failed to create tweet", err)
	}
	return tweet, nil
}

func (u *TweetUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tweet, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NotFound("user not found")
	}
	tweets, err := u.tweetRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, domain.Internal("failed to load tweets", err)
	}
	if tweets == nil {
		tweets = []*domain.Tweet{}
	}
	return tweets, nil
}

func (u *TweetUsecase) owned(ctx context.Context, id, actorID uuid.UUID) (*domain.Tweet, error) {
	tweet, err := u.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load tweet", err)
	}
	if err := AssertOwner(tweet, actorID, "tweet"); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (u *TweetUsecase) Update(ctx context.Context, id, actorID uuid.UUID, content string) (*domain.Tweet, error) {
	tweet, err := u.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.BadRequest("content is required")
	}
	if err := u.tweetRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, domain.Internal("failed to update tweet", err)
	}
	tweet.Content = content
	return tweet, nil
}

func (u *TweetUsecase) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if _, err := u.owned(ctx, id, actorID); err != nil {
		return err
	}
	if err := u.tweetRepo.Delete(ctx, id); err != nil {
		return domain.Internal("failed to delete tweet", err)
	}
	return nil
}
