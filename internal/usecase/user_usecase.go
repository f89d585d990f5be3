package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type UserUsecase struct {
	userRepo domain.UserRepository
	media    *mediaUploader
}

func NewUserUsecase(userRepo domain.UserRepository, media domain.MediaStore, logger *slog.Logger) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, media: newMediaUploader(media, logger)}
}

func (u *UserUsecase) get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NotFound("user not found")
	}
	return user, nil
}

func (u *UserUsecase) UpdateProfile(ctx context.Context, id uuid.UUID, fullName string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, domain.BadRequest("fullname is required")
	}
	if err := u.userRepo.UpdateFullName(ctx, id, fullName); err != nil {
		return nil, domain.Internal("failed to update profile", err)
	}
	user, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (u *UserUsecase) UpdateAvatar(ctx context.Context, id uuid.UUID, file *domain.MediaFile) (*domain.User, error) {
	return u.replaceImage(ctx, id, file, "avatar", func(user *domain.User) string { return user.AvatarID }, u.userRepo.UpdateAvatar)
}

func (u *UserUsecase) UpdateCoverImage(ctx context.Context, id uuid.UUID, file *domain.MediaFile) (*domain.User, error) {
	return u.replaceImage(ctx, id, file, "cover image", func(user *domain.User) string { return user.CoverImageID }, u.userRepo.UpdateCoverImage)
}

// replaceImage uploads the new asset, persists it and only then deletes the
// previous one.
func (u *UserUsecase) replaceImage(
	ctx context.Context,
	id uuid.UUID,
	file *domain.MediaFile,
	what string,
	previous func(*domain.User) string,
	persist func(ctx context.Context, id uuid.UUID, url, publicID string) error,
) (*domain.User, error) {
	user, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	uploaded, err := u.media.upload(ctx, file, what)
	if err != nil {
		return nil, err
	}
	if err := persist(ctx, id, uploaded.SecureURL, uploaded.PublicID); err != nil {
		u.media.rollback(ctx, uploaded)
		return nil, domain.Internal("failed to update "+what, err)
	}
	u.media.discard(ctx, previous(user))

	updated, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated.Sanitized(), nil
}

func (u *UserUsecase) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.BadRequest("username is missing")
	}
	profile, err := u.userRepo.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, domain.Internal("failed to load channel", err)
	}
	if profile == nil {
		return nil, domain.NotFound("channel does not exist")
	}
	return profile, nil
}

func (u *UserUsecase) WatchHistory(ctx context.Context, userID uuid.UUID) ([]*domain.Video, error) {
	videos, err := u.userRepo.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, domain.Internal("failed to load watch history", err)
	}
	if videos == nil {
		videos = []*domain.Video{}
	}
	return videos, nil
}
