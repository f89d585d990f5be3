package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type PlaylistRepository struct {
	s *Store
}

func NewPlaylistRepository(s *Store) *PlaylistRepository {
	return &PlaylistRepository{s: s}
}

func (r *PlaylistRepository) view(p *domain.Playlist) *domain.Playlist {
	out := *p
	out.Videos = make([]*domain.VideoSummary, 0, len(r.s.playlistVideos[p.ID]))
	for _, id := range r.s.playlistVideos[p.ID] {
		if summary := r.s.videoSummaryLocked(id); summary != nil {
			out.Videos = append(out.Videos, summary)
		}
	}
	return &out
}

func (r *PlaylistRepository) Create(_ context.Context, playlist *domain.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	now := r.s.now()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	stored := *playlist
	stored.Videos = nil
	r.s.playlists[playlist.ID] = &stored
	r.s.register(playlist.ID)
	return nil
}

func (r *PlaylistRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Playlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, nil
	}
	return r.view(p), nil
}

func (r *PlaylistRepository) ListByOwner(_ context.Context, ownerID uuid.UUID, includePrivate bool) ([]*domain.Playlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []uuid.UUID
	for id, p := range r.s.playlists {
		if p.OwnerID == ownerID && (includePrivate || !p.IsPrivate) {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)
	out := make([]*domain.Playlist, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.view(r.s.playlists[id]))
	}
	return out, nil
}

func (r *PlaylistRepository) Update(_ context.Context, playlist *domain.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.playlists[playlist.ID]; ok {
		p.Name = playlist.Name
		p.Description = playlist.Description
		p.IsPrivate = playlist.IsPrivate
		p.UpdatedAt = r.s.now()
		playlist.UpdatedAt = p.UpdatedAt
	}
	return nil
}

func (r *PlaylistRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.playlists, id)
	delete(r.s.playlistVideos, id)
	return nil
}

func (r *PlaylistRepository) AddVideo(_ context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.playlists[playlistID]; !ok {
		return false, nil
	}
	for _, id := range r.s.playlistVideos[playlistID] {
		if id == videoID {
			return false, nil
		}
	}
	r.s.playlistVideos[playlistID] = append(r.s.playlistVideos[playlistID], videoID)
	return true, nil
}

func (r *PlaylistRepository) RemoveVideo(_ context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.s.playlistVideos[playlistID]
	for i, id := range ids {
		if id == videoID {
			r.s.playlistVideos[playlistID] = append(ids[:i:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
