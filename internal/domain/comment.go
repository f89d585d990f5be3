package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID         uuid.UUID    `json:"id"`
	VideoID    uuid.UUID    `json:"video_id"`
	OwnerID    uuid.UUID    `json:"owner_id"`
	Owner      *UserSummary `json:"owner,omitempty"`
	Content    string       `json:"content"`
	LikesCount int64        `json:"likes_count"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (c *Comment) OwnedBy() uuid.UUID { return c.OwnerID }

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByVideo(ctx context.Context, videoID uuid.UUID, limit, offset int) ([]*Comment, int, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
