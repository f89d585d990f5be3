package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type SubscriptionUsecase struct {
	subRepo  domain.SubscriptionRepository
	userRepo domain.UserRepository
}

func NewSubscriptionUsecase(subRepo domain.SubscriptionRepository, userRepo domain.UserRepository) *SubscriptionUsecase {
	return &SubscriptionUsecase{subRepo: subRepo, userRepo: userRepo}
}

type SubscriptionToggle struct {
	Subscribed   bool                 `json:"subscribed"`
	Subscription *domain.Subscription `json:"subscription"`
}

func (u *SubscriptionUsecase) requireUser(ctx context.Context, id uuid.UUID, what string) error {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Internal("failed to load "+what, err)
	}
	if user == nil {
		return domain.NotFound(what + " not found")
	}
	return nil
}

func (u *SubscriptionUsecase) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (*SubscriptionToggle, error) {
	if subscriberID == channelID {
		return nil, domain.BadRequest("you cannot subscribe to your own channel")
	}
	if err := u.requireUser(ctx, channelID, "channel"); err != nil {
		return nil, err
	}
	sub, subscribed, err := u.subRepo.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return nil, domain.Internal("failed to toggle subscription", err)
	}
	return &SubscriptionToggle{Subscribed: subscribed, Subscription: sub}, nil
}

func (u *SubscriptionUsecase) Subscribers(ctx context.Context, channelID uuid.UUID) ([]*domain.UserSummary, error) {
	if err := u.requireUser(ctx, channelID, "channel"); err != nil {
		return nil, err
	}
	users, err := u.subRepo.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, domain.Internal("failed to load subscribers", err)
	}
	if users == nil {
		users = []*domain.UserSummary{}
	}
	return users, nil
}

func (u *SubscriptionUsecase) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]*domain.UserSummary, error) {
	if err := u.requireUser(ctx, subscriberID, "subscriber"); err != nil {
		return nil, err
	}
	channels, err := u.subRepo.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, domain.Internal("failed to load subscriptions", err)
	}
	if channels == nil {
		channels = []*domain.UserSummary{}
	}
	return channels, nil
}
