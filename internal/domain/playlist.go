package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsPrivate   bool            `json:"is_private"`
	Videos      []*VideoSummary `json:"videos"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *Playlist) OwnedBy() uuid.UUID { return p.OwnerID }

// Contains reports whether videoID is already in the playlist.
func (p *Playlist) Contains(videoID uuid.UUID) bool {
	for _, v := range p.Videos {
		if v.ID == videoID {
			return true
		}
	}
	return false
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Playlist, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, includePrivate bool) ([]*Playlist, error)
	Update(ctx context.Context, playlist *Playlist) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddVideo reports false when the video was already in the playlist.
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)
	// RemoveVideo reports false when the video was not in the playlist.
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)
}
