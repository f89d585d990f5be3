package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type TweetRepository struct {
	s *Store
}

func NewTweetRepository(s *Store) *TweetRepository {
	return &TweetRepository{s: s}
}

func (r *TweetRepository) view(t *domain.Tweet) *domain.Tweet {
	out := *t
	out.Owner = r.s.summaryLocked(t.OwnerID)
	out.LikesCount = r.s.countLikesLocked(domain.LikeTargetTweet, t.ID)
	return &out
}

func (r *TweetRepository) Create(_ context.Context, tweet *domain.Tweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if tweet.ID == uuid.Nil {
		tweet.ID = uuid.New()
	}
	now := r.s.now()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now
	tweet.Owner = r.s.summaryLocked(tweet.OwnerID)
	stored := *tweet
	stored.Owner = nil
	r.s.tweets[tweet.ID] = &stored
	r.s.register(tweet.ID)
	return nil
}

func (r *TweetRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Tweet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, nil
	}
	return r.view(t), nil
}

func (r *TweetRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Tweet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []uuid.UUID
	for id, t := range r.s.tweets {
		if t.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)
	out := make([]*domain.Tweet, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.view(r.s.tweets[id]))
	}
	return out, nil
}

func (r *TweetRepository) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tweets[id]; ok {
		t.Content = content
		t.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *TweetRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tweets, id)
	r.s.deleteLikesLocked(domain.LikeTargetTweet, id)
	return nil
}
