package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type VideoRepository struct {
	s *Store
}

func NewVideoRepository(s *Store) *VideoRepository {
	return &VideoRepository{s: s}
}

func (r *VideoRepository) Create(_ context.Context, video *domain.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	now := r.s.now()
	video.CreatedAt = now
	video.UpdatedAt = now
	video.Owner = r.s.summaryLocked(video.OwnerID)
	stored := *video
	stored.Owner = nil
	r.s.videos[video.ID] = &stored
	r.s.register(video.ID)
	return nil
}

func (r *VideoRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Video, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, nil
	}
	return r.s.videoViewLocked(v), nil
}

func (r *VideoRepository) Search(_ context.Context, q domain.VideoQuery) ([]*domain.Video, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(q.Query)
	var matched []*domain.Video
	for _, v := range r.s.videos {
		if q.PublishedOnly && !v.IsPublished {
			continue
		}
		if q.OwnerID != nil && v.OwnerID != *q.OwnerID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(v.Title), needle) {
			continue
		}
		matched = append(matched, v)
	}

	less := func(a, b *domain.Video) bool {
		switch q.SortBy {
		case domain.VideoSortViews:
			if a.Views != b.Views {
				return a.Views < b.Views
			}
		case domain.VideoSortTitle:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		case domain.VideoSortDuration:
			if a.Duration != b.Duration {
				return a.Duration < b.Duration
			}
		}
		return r.s.seq[a.ID] < r.s.seq[b.ID]
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if q.SortDesc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := len(matched)
	start := q.Offset
	if start > total {
		start = total
	}
	end := total
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	out := make([]*domain.Video, 0, end-start)
	for _, v := range matched[start:end] {
		out = append(out, r.s.videoViewLocked(v))
	}
	return out, total, nil
}

func (r *VideoRepository) Update(_ context.Context, video *domain.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[video.ID]
	if !ok {
		return nil
	}
	v.Title = video.Title
	v.Description = video.Description
	v.Thumbnail = video.Thumbnail
	v.ThumbnailID = video.ThumbnailID
	v.IsPublished = video.IsPublished
	v.UpdatedAt = r.s.now()
	video.UpdatedAt = v.UpdatedAt
	return nil
}

// Delete removes the video along with its comments, likes, viewers and
// playlist and history entries.
func (r *VideoRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.videos, id)
	delete(r.s.viewers, id)
	for cid, c := range r.s.comments {
		if c.VideoID == id {
			r.s.deleteLikesLocked(domain.LikeTargetComment, cid)
			delete(r.s.comments, cid)
		}
	}
	r.s.deleteLikesLocked(domain.LikeTargetVideo, id)
	for pid, ids := range r.s.playlistVideos {
		r.s.playlistVideos[pid] = without(ids, id)
	}
	for uid, ids := range r.s.history {
		r.s.history[uid] = without(ids, id)
	}
	return nil
}

func (r *VideoRepository) RecordView(_ context.Context, videoID, viewerID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[videoID]
	if !ok {
		return false, nil
	}
	seen := r.s.viewers[videoID]
	if seen == nil {
		seen = make(map[uuid.UUID]struct{})
		r.s.viewers[videoID] = seen
	}
	if _, dup := seen[viewerID]; dup {
		return false, nil
	}
	seen[viewerID] = struct{}{}
	v.Views++
	return true, nil
}

func (r *VideoRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Video, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []uuid.UUID
	for id, v := range r.s.videos {
		if v.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids)
	out := make([]*domain.Video, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.s.videoViewLocked(r.s.videos[id]))
	}
	return out, nil
}

func (r *VideoRepository) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, v := range r.s.videos {
		if v.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *VideoRepository) SumViewsByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, v := range r.s.videos {
		if v.OwnerID == ownerID {
			n += v.Views
		}
	}
	return n, nil
}

func without(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
