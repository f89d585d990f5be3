package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Owner       *UserSummary `json:"owner,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	VideoFile   string       `json:"video_file"`
	VideoFileID string       `json:"-"`
	Thumbnail   string       `json:"thumbnail"`
	ThumbnailID string       `json:"-"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	LikesCount  int64        `json:"likes_count"`
	IsPublished bool         `json:"is_published"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (v *Video) OwnedBy() uuid.UUID { return v.OwnerID }

// VideoSummary is the projection of a video embedded in playlists and likes.
type VideoSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	OwnerID   uuid.UUID `json:"owner_id"`
}

const (
	VideoSortCreatedAt = "created_at"
	VideoSortViews     = "views"
	VideoSortTitle     = "title"
	VideoSortDuration  = "duration"
)

type VideoQuery struct {
	Query         string
	OwnerID       *uuid.UUID
	PublishedOnly bool
	SortBy        string
	SortDesc      bool
	Limit         int
	Offset        int
}

type VideoRepository interface {
	Create(ctx context.Context, video *Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*Video, error)
	Search(ctx context.Context, q VideoQuery) ([]*Video, int, error)
	Update(ctx context.Context, video *Video) error
	Delete(ctx context.Context, id uuid.UUID) error
	// RecordView registers viewerID as a viewer and increments the view
	// counter only the first time that viewer is seen.
	RecordView(ctx context.Context, videoID, viewerID uuid.UUID) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Video, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	SumViewsByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
