package usecase

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vidtube/backend/internal/domain"
)

type DashboardUsecase struct {
	videoRepo domain.VideoRepository
	likeRepo  domain.LikeRepository
	subRepo   domain.SubscriptionRepository
	userRepo  domain.UserRepository
}

func NewDashboardUsecase(videoRepo domain.VideoRepository, likeRepo domain.LikeRepository, subRepo domain.SubscriptionRepository, userRepo domain.UserRepository) *DashboardUsecase {
	return &DashboardUsecase{videoRepo: videoRepo, likeRepo: likeRepo, subRepo: subRepo, userRepo: userRepo}
}

type ChannelStats struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalLikes       int64 `json:"total_likes"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

func (u *DashboardUsecase) requireChannel(ctx context.Context, channelID uuid.UUID) error {
	user, err := u.userRepo.GetByID(ctx, channelID)
	if err != nil {
		return domain.Internal("failed to load channel", err)
	}
	if user == nil {
		return domain.NotFound("channel not found")
	}
	return nil
}

// Stats runs the four aggregate queries concurrently.
func (u *DashboardUsecase) Stats(ctx context.Context, channelID uuid.UUID) (*ChannelStats, error) {
	if err := u.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}

	stats := &ChannelStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalVideos, err = u.videoRepo.CountByOwner(gctx, channelID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalViews, err = u.videoRepo.SumViewsByOwner(gctx, channelID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalLikes, err = u.likeRepo.CountForOwnerVideos(gctx, channelID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSubscribers, err = u.subRepo.CountSubscribers(gctx, channelID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Internal("failed to load channel stats", err)
	}
	return stats, nil
}

// Videos lists the channel's videos newest first. Unpublished ones are only
// shown to the channel owner.
func (u *DashboardUsecase) Videos(ctx context.Context, channelID, viewerID uuid.UUID) ([]*domain.Video, error) {
	if err := u.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}
	videos, err := u.videoRepo.ListByOwner(ctx, channelID)
	if err != nil {
		return nil, domain.Internal("failed to load channel videos", err)
	}
	visible := make([]*domain.Video, 0, len(videos))
	for _, v := range videos {
		if v.IsPublished || viewerID == channelID {
			visible = append(visible, v)
		}
	}
	return visible, nil
}
