package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type SubscriptionRepository struct {
	s *Store
}

func NewSubscriptionRepository(s *Store) *SubscriptionRepository {
	return &SubscriptionRepository{s: s}
}

func (r *SubscriptionRepository) Toggle(_ context.Context, subscriberID, channelID uuid.UUID) (*domain.Subscription, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, sub := range r.s.subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			delete(r.s.subscriptions, id)
			return nil, false, nil
		}
	}
	sub := &domain.Subscription{ID: uuid.New(), SubscriberID: subscriberID, ChannelID: channelID, CreatedAt: r.s.now()}
	r.s.subscriptions[sub.ID] = sub
	r.s.register(sub.ID)
	out := *sub
	return &out, true, nil
}

func (r *SubscriptionRepository) list(match func(*domain.Subscription) (uuid.UUID, bool)) []*domain.UserSummary {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []uuid.UUID
	for id, sub := range r.s.subscriptions {
		if _, ok := match(sub); ok {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)

	out := make([]*domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		userID, _ := match(r.s.subscriptions[id])
		if summary := r.s.summaryLocked(userID); summary != nil {
			out = append(out, summary)
		}
	}
	return out
}

func (r *SubscriptionRepository) ListSubscribers(_ context.Context, channelID uuid.UUID) ([]*domain.UserSummary, error) {
	return r.list(func(sub *domain.Subscription) (uuid.UUID, bool) {
		return sub.SubscriberID, sub.ChannelID == channelID
	}), nil
}

func (r *SubscriptionRepository) ListSubscribedChannels(_ context.Context, subscriberID uuid.UUID) ([]*domain.UserSummary, error) {
	return r.list(func(sub *domain.Subscription) (uuid.UUID, bool) {
		return sub.ChannelID, sub.SubscriberID == subscriberID
	}), nil
}

func (r *SubscriptionRepository) CountSubscribers(_ context.Context, channelID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, sub := range r.s.subscriptions {
		if sub.ChannelID == channelID {
			n++
		}
	}
	return n, nil
}
