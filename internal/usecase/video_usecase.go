package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/logging"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

type VideoUsecase struct {
	videoRepo domain.VideoRepository
	userRepo  domain.UserRepository
	media     *mediaUploader
	logger    *slog.Logger
}

func NewVideoUsecase(videoRepo domain.VideoRepository, userRepo domain.UserRepository, media domain.MediaStore, logger *slog.Logger) *VideoUsecase {
	return &VideoUsecase{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		media:     newMediaUploader(media, logger),
		logger:    logging.WithComponent(logger, "video"),
	}
}

type VideoSearchInput struct {
	Query    string
	UserID   string
	SortBy   string
	SortType string
	Page     int
	Limit    int
}

type VideoPage struct {
	Videos []*domain.Video `json:"videos"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

func (u *VideoUsecase) Search(ctx context.Context, in VideoSearchInput) (*VideoPage, error) {
	page, limit := normalizePage(in.Page, in.Limit)

	q := domain.VideoQuery{
		Query:         strings.TrimSpace(in.Query),
		PublishedOnly: true,
		SortBy:        domain.VideoSortCreatedAt,
		SortDesc:      true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}
	switch in.SortBy {
	case "":
	case domain.VideoSortCreatedAt, domain.VideoSortViews, domain.VideoSortTitle, domain.VideoSortDuration:
		q.SortBy = in.SortBy
	default:
		return nil, domain.BadRequest("invalid sortBy")
	}
	switch strings.ToLower(in.SortType) {
	case "", "desc":
	case "asc":
		q.SortDesc = false
	default:
		return nil, domain.BadRequest("invalid sortType")
	}
	if in.UserID != "" {
		ownerID, err := uuid.Parse(in.UserID)
		if err != nil {
			return nil, domain.BadRequest("invalid user id")
		}
		q.OwnerID = &ownerID
	}

	videos, total, err := u.videoRepo.Search(ctx, q)
	if err != nil {
		return nil, domain.Internal("failed to search videos", err)
	}
	if videos == nil {
		videos = []*domain.Video{}
	}
	return &VideoPage{Videos: videos, Total: total, Page: page, Limit: limit}, nil
}

type PublishVideoInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *domain.MediaFile
	Thumbnail   *domain.MediaFile
}

// Publish uploads both assets and creates the video record. Anything already
// uploaded is deleted again if a later step fails.
func (u *VideoUsecase) Publish(ctx context.Context, ownerID uuid.UUID, in PublishVideoInput) (*domain.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, domain.BadRequest("title and description are required")
	}
	if in.VideoFile == nil {
		return nil, domain.BadRequest("video file is required")
	}
	if in.Thumbnail == nil {
		return nil, domain.BadRequest("thumbnail file is required")
	}
	if in.Duration < 0 {
		return nil, domain.BadRequest("duration must not be negative")
	}

	videoFile, err := u.media.upload(ctx, in.VideoFile, "video file")
	if err != nil {
		return nil, err
	}
	thumbnail, err := u.media.upload(ctx, in.Thumbnail, "thumbnail")
	if err != nil {
		u.media.rollback(ctx, videoFile)
		return nil, err
	}

	video := &domain.Video{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		VideoFile:   videoFile.SecureURL,
		VideoFileID: videoFile.PublicID,
		Thumbnail:   thumbnail.SecureURL,
		ThumbnailID: thumbnail.PublicID,
		Duration:    in.Duration,
		IsPublished: true,
	}
	if err := u.videoRepo.Create(ctx, video); err != nil {
		u.media.rollback(ctx, videoFile, thumbnail)
		return nil, domain.Internal("failed to create video", err)
	}
	return video, nil
}

// visibleVideo loads a video as viewerID sees it. Unpublished videos exist
// only for their owner.
func visibleVideo(ctx context.Context, repo domain.VideoRepository, id, viewerID uuid.UUID) (*domain.Video, error) {
	video, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load video", err)
	}
	if video == nil || (!video.IsPublished && video.OwnerID != viewerID) {
		return nil, domain.NotFound("video not found")
	}
	return video, nil
}

func (u *VideoUsecase) load(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	video, err := u.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("failed to load video", err)
	}
	return video, nil
}

// Get returns a video to viewerID, counting the view the first time this
// viewer opens it and appending it to the viewer's watch history.
// Unpublished videos are visible only to their owner.
func (u *VideoUsecase) Get(ctx context.Context, id, viewerID uuid.UUID) (*domain.Video, error) {
	video, err := visibleVideo(ctx, u.videoRepo, id, viewerID)
	if err != nil {
		return nil, err
	}

	counted, err := u.videoRepo.RecordView(ctx, id, viewerID)
	if err != nil {
		return nil, domain.Internal("failed to record view", err)
	}
	if counted {
		video.Views++
	}
	if err := u.userRepo.AddToWatchHistory(ctx, viewerID, id); err != nil {
		logging.WithContext(ctx, u.logger).Warn("failed to update watch history", "video_id", id, "error", err)
	}
	return video, nil
}

// Authorize checks that actorID owns the video. Handlers call it before
// reading an upload body.
func (u *VideoUsecase) Authorize(ctx context.Context, id, actorID uuid.UUID) error {
	video, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	return AssertOwner(video, actorID, "video")
}

type UpdateVideoInput struct {
	Title       string
	Description string
	Thumbnail   *domain.MediaFile
}

func (u *VideoUsecase) Update(ctx context.Context, id, actorID uuid.UUID, in UpdateVideoInput) (*domain.Video, error) {
	video, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(video, actorID, "video"); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, domain.BadRequest("title and description are required")
	}

	previousThumbnail := ""
	var thumbnail *domain.UploadedMedia
	if in.Thumbnail != nil {
		thumbnail, err = u.media.upload(ctx, in.Thumbnail, "thumbnail")
		if err != nil {
			return nil, err
		}
		previousThumbnail = video.ThumbnailID
		video.Thumbnail = thumbnail.SecureURL
		video.ThumbnailID = thumbnail.PublicID
	}
	video.Title = in.Title
	video.Description = in.Description

	if err := u.videoRepo.Update(ctx, video); err != nil {
		u.media.rollback(ctx, thumbnail)
		return nil, domain.Internal("failed to update video", err)
	}
	u.media.discard(ctx, previousThumbnail)
	return video, nil
}

func (u *VideoUsecase) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	video, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertOwner(video, actorID, "video"); err != nil {
		return err
	}
	if err := u.videoRepo.Delete(ctx, id); err != nil {
		return domain.Internal("failed to delete video", err)
	}
	u.media.discard(ctx, video.VideoFileID, video.ThumbnailID)
	return nil
}

func (u *VideoUsecase) TogglePublish(ctx context.Context, id, actorID uuid.UUID) (*domain.Video, error) {
	video, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(video, actorID, "video"); err != nil {
		return nil, err
	}
	video.IsPublished = !video.IsPublished
	if err := u.videoRepo.Update(ctx, video); err != nil {
		return nil, domain.Internal("failed to update video", err)
	}
	return video, nil
}
