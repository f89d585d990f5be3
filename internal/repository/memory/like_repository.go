package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type LikeRepository struct {
	s *Store
}

func NewLikeRepository(s *Store) *LikeRepository {
	return &LikeRepository{s: s}
}

func (s *Store) deleteLikesLocked(target domain.LikeTarget, id uuid.UUID) {
	for lid, l := range s.likes {
		if likeTargetID(l, target) == id {
			delete(s.likes, lid)
		}
	}
}

func (r *LikeRepository) Toggle(_ context.Context, userID uuid.UUID, target domain.LikeTarget, targetID uuid.UUID) (*domain.Like, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, l := range r.s.likes {
		if l.LikedBy == userID && likeTargetID(l, target) == targetID {
			delete(r.s.likes, id)
			return nil, false, nil
		}
	}

	like := &domain.Like{ID: uuid.New(), LikedBy: userID, CreatedAt: r.s.now()}
	ref := targetID
	switch target {
	case domain.LikeTargetVideo:
		like.VideoID = &ref
	case domain.LikeTargetComment:
		like.CommentID = &ref
	case domain.LikeTargetTweet:
		like.TweetID = &ref
	}
	r.s.likes[like.ID] = like
	r.s.register(like.ID)
	out := *like
	return &out, true, nil
}

func (r *LikeRepository) ListLikedVideos(_ context.Context, userID uuid.UUID) ([]*domain.LikedVideo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []uuid.UUID
	for id, l := range r.s.likes {
		if l.LikedBy == userID && l.VideoID != nil {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)

	out := make([]*domain.LikedVideo, 0, len(ids))
	for _, id := range ids {
		l := r.s.likes[id]
		if summary := r.s.videoSummaryLocked(*l.VideoID); summary != nil {
			out = append(out, &domain.LikedVideo{LikedAt: l.CreatedAt, Video: summary})
		}
	}
	return out, nil
}

func (r *LikeRepository) CountForOwnerVideos(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, l := range r.s.likes {
		if l.VideoID == nil {
			continue
		}
		if v, ok := r.s.videos[*l.VideoID]; ok && v.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}
