package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type CommentRepository struct {
	s *Store
}

func NewCommentRepository(s *Store) *CommentRepository {
	return &CommentRepository{s: s}
}

func (r *CommentRepository) view(c *domain.Comment) *domain.Comment {
	out := *c
	out.Owner = r.s.summaryLocked(c.OwnerID)
	out.LikesCount = r.s.countLikesLocked(domain.LikeTargetComment, c.ID)
	return &out
}

func (r *CommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := r.s.now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.Owner = r.s.summaryLocked(comment.OwnerID)
	stored := *comment
	stored.Owner = nil
	r.s.comments[comment.ID] = &stored
	r.s.register(comment.ID)
	return nil
}

func (r *CommentRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	return r.view(c), nil
}

func (r *CommentRepository) ListByVideo(_ context.Context, videoID uuid.UUID, limit, offset int) ([]*domain.Comment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []uuid.UUID
	for id, c := range r.s.comments {
		if c.VideoID == videoID {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)

	total := len(ids)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*domain.Comment, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, r.view(r.s.comments[id]))
	}
	return out, total, nil
}

func (r *CommentRepository) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.comments[id]; ok {
		c.Content = content
		c.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *CommentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.comments, id)
	r.s.deleteLikesLocked(domain.LikeTargetComment, id)
	return nil
}
