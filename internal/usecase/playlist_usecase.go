package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type PlaylistUsecase struct {
	playlistRepo domain.PlaylistRepository
	videoRepo    domain.VideoRepository
	userRepo     domain.UserRepository
}

func NewPlaylistUsecase(playlistRepo domain.PlaylistRepository, videoRepo domain.VideoRepository, userRepo domain.UserRepository) *PlaylistUsecase {
	return &PlaylistUsecase{playlistRepo: playlistRepo, videoRepo: videoRepo, userRepo: userRepo}
}

type PlaylistInput struct {
	Name        string
	Description string
	IsPrivate   bool
}

func (u *PlaylistUsecase) Create(ctx context.Context, ownerID uuid.UUID, in PlaylistInput) (*domain.Playlist, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.BadRequest("name is required")
	}
	playlist := &domain.Playlist{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		IsPrivate:   in.IsPrivate,
		Videos:      []*domain.VideoSummary{},
	}
	if err := u.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, domain.Internal("failed to create playlist", err)
	}
	return playlist, nil
}

// ListByUser returns userID's playlists. Private ones are included only when
// the viewer is that user.
func (u *PlaylistUsecase) ListByUser(ctx context.Context, userID, viewerID uuid.UUID) ([]*domain.Playlist, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NotFound("user not found")
	}
	playlists, err := u.playlistRepo.ListByOwner(ctx, userID, userID == viewerID)
	if err != nil {
		return nil, domain.Internal("failed to load playlists", err)
	}
	if playlists == nil {
		playlists = []*domain.Playlist{}
	}
	return playlists, nil
}

// Get hides private playlists from everyone but the owner. viewerID is
// uuid.Nil for anonymous callers.
func (u *PlaylistUsecase) Get(ctx context.Context, id, viewerID uuid.UUID) (*domain.Playlist, error) {
	playlist, err := u.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load playlist", err)
	}
	if playlist == nil || (playlist.IsPrivate && playlist.OwnerID != viewerID) {
		return nil, domain.NotFound("playlist not found")
	}
	return playlist, nil
}

func (u *PlaylistUsecase) owned(ctx context.Context, id, actorID uuid.UUID) (*domain.Playlist, error) {
	playlist, err := u.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load playlist", err)
	}
	if err := AssertOwner(playlist, actorID, "playlist"); err != nil {
		return nil, err
	}
	return playlist, nil
}

// requireVideo only checks existence so owners can still drop videos that
// were unpublished after being added.
func (u *PlaylistUsecase) requireVideo(ctx context.Context, videoID uuid.UUID) error {
	video, err := u.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return domain.Internal("failed to load video", err)
	}
	if video == nil {
		return domain.NotFound("video not found")
	}
	return nil
}

func (u *PlaylistUsecase) AddVideo(ctx context.Context, playlistID, videoID, actorID uuid.UUID) (*domain.Playlist, error) {
	if _, err := u.owned(ctx, playlistID, actorID); err != nil {
		return nil, err
	}
	if _, err := visibleVideo(ctx, u.videoRepo, videoID, actorID); err != nil {
		return nil, err
	}
	added, err := u.playlistRepo.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, domain.Internal("failed to add video to playlist", err)
	}
	if !added {
		return nil, domain.BadRequest("video is already in the playlist")
	}
	return u.reload(ctx, playlistID)
}

func (u *PlaylistUsecase) RemoveVideo(ctx context.Context, playlistID, videoID, actorID uuid.UUID) (*domain.Playlist, error) {
	if _, err := u.owned(ctx, playlistID, actorID); err != nil {
		return nil, err
	}
	if err := u.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	removed, err := u.playlistRepo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, domain.Internal("failed to remove video from playlist", err)
	}
	if !removed {
		return nil, domain.BadRequest("video is not in the playlist")
	}
	return u.reload(ctx, playlistID)
}

func (u *PlaylistUsecase) reload(ctx context.Context, id uuid.UUID) (*domain.Playlist, error) {
	playlist, err := u.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load playlist", err)
	}
	if playlist == nil {
		return nil, domain.NotFound("playlist not found")
	}
	return playlist, nil
}

func (u *PlaylistUsecase) Update(ctx context.Context, id, actorID uuid.UUID, in PlaylistInput) (*domain.Playlist, error) {
	playlist, err := u.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.BadRequest("name is required")
	}
	playlist.Name = in.Name
	playlist.Description = strings.TrimSpace(in.Description)
	playlist.IsPrivate = in.IsPrivate
	if err := u.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, domain.Internal("failed to update playlist", err)
	}
	return playlist, nil
}

func (u *PlaylistUsecase) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if _, err := u.owned(ctx, id, actorID); err != nil {
		return err
	}
	if err := u.playlistRepo.Delete(ctx, id); err != nil {
		return domain.Internal("failed to delete playlist", err)
	}
	return nil
}
