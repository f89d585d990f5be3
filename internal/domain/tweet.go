package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Tweet struct {
	ID         uuid.UUID    `json:"id"`
	OwnerID    uuid.UUID    `json:"owner_id"`
	Owner      *UserSummary `json:"owner,omitempty"`
	Content    string       `json:"content"`
	LikesCount int64        `json:"likes_count"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (t *Tweet) OwnedBy() uuid.UUID { return t.OwnerID }

type TweetRepository interface {
	Create(ctx context.Context, tweet *Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tweet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Tweet, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
