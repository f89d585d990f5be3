package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID           uuid.UUID `json:"id"`
	SubscriberID uuid.UUID `json:"subscriber_id"`
	ChannelID    uuid.UUID `json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (*Subscription, bool, error)
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]*UserSummary, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]*UserSummary, error)
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)
}
