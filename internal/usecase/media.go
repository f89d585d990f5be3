package usecase

import (
	"context"
	"log/slog"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/logging"
)

// mediaUploader wraps the media store with best-effort cleanup of assets whose
// owning record could not be written.
type mediaUploader struct {
	store  domain.MediaStore
	logger *slog.Logger
}

func newMediaUploader(store domain.MediaStore, logger *slog.Logger) *mediaUploader {
	return &mediaUploader{store: store, logger: logging.WithComponent(logger, "media")}
}

func (m *mediaUploader) upload(ctx context.Context, file *domain.MediaFile, what string) (*domain.UploadedMedia, error) {
	if file == nil {
		return nil, domain.BadRequest(what + " file is required")
	}
	uploaded, err := m.store.Upload(ctx, *file)
	if err != nil {
		return nil, domain.Internal("failed to upload "+what, err)
	}
	return uploaded, nil
}

// discard deletes the given assets, logging failures instead of returning them.
func (m *mediaUploader) discard(ctx context.Context, publicIDs ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := m.store.Delete(ctx, id); err != nil {
			logging.WithContext(ctx, m.logger).Warn("media cleanup failed", "public_id", id, "error", err)
		}
	}
}

// rollback discards every asset uploaded so far.
func (m *mediaUploader) rollback(ctx context.Context, uploaded ...*domain.UploadedMedia) {
	for _, u := range uploaded {
		if u != nil {
			m.discard(ctx, u.PublicID)
		}
	}
}
