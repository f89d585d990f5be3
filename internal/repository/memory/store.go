// Package memory keeps every repository in process memory. It mirrors the
// postgres package's semantics and backs tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

// Store is the shared state behind the memory repositories. It is safe for
// concurrent use.
type Store struct {
	mu sync.RWMutex

	users          map[uuid.UUID]*domain.User
	history        map[uuid.UUID][]uuid.UUID
	videos         map[uuid.UUID]*domain.Video
	viewers        map[uuid.UUID]map[uuid.UUID]struct{}
	comments       map[uuid.UUID]*domain.Comment
	likes          map[uuid.UUID]*domain.Like
	subscriptions  map[uuid.UUID]*domain.Subscription
	playlists      map[uuid.UUID]*domain.Playlist
	playlistVideos map[uuid.UUID][]uuid.UUID
	tweets         map[uuid.UUID]*domain.Tweet

	// seq orders records created within the same clock tick.
	seq     map[uuid.UUID]int64
	nextSeq int64
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:          make(map[uuid.UUID]*domain.User),
		history:        make(map[uuid.UUID][]uuid.UUID),
		videos:         make(map[uuid.UUID]*domain.Video),
		viewers:        make(map[uuid.UUID]map[uuid.UUID]struct{}),
		comments:       make(map[uuid.UUID]*domain.Comment),
		likes:          make(map[uuid.UUID]*domain.Like),
		subscriptions:  make(map[uuid.UUID]*domain.Subscription),
		playlists:      make(map[uuid.UUID]*domain.Playlist),
		playlistVideos: make(map[uuid.UUID][]uuid.UUID),
		tweets:         make(map[uuid.UUID]*domain.Tweet),
		seq:            make(map[uuid.UUID]int64),
		now:            time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) register(id uuid.UUID) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

// newestFirst sorts ids by creation order, most recent first.
func (s *Store) newestFirst(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return s.seq[ids[i]] > s.seq[ids[j]] })
}

func (s *Store) summaryLocked(userID uuid.UUID) *domain.UserSummary {
	if u, ok := s.users[userID]; ok {
		return u.Summary()
	}
	return nil
}

func (s *Store) videoSummaryLocked(videoID uuid.UUID) *domain.VideoSummary {
	v, ok := s.videos[videoID]
	if !ok {
		return nil
	}
	return &domain.VideoSummary{ID: v.ID, Title: v.Title, Thumbnail: v.Thumbnail, OwnerID: v.OwnerID}
}

func (s *Store) countLikesLocked(target domain.LikeTarget, id uuid.UUID) int64 {
	var n int64
	for _, l := range s.likes {
		if likeTargetID(l, target) == id {
			n++
		}
	}
	return n
}

func (s *Store) videoViewLocked(v *domain.Video) *domain.Video {
	out := *v
	out.Owner = s.summaryLocked(v.OwnerID)
	out.LikesCount = s.countLikesLocked(domain.LikeTargetVideo, v.ID)
	return &out
}

func likeTargetID(l *domain.Like, target domain.LikeTarget) uuid.UUID {
	var p *uuid.UUID
	switch target {
	case domain.LikeTargetVideo:
		p = l.VideoID
	case domain.LikeTargetComment:
		p = l.CommentID
	case domain.LikeTargetTweet:
		p = l.TweetID
	}
	if p == nil {
		return uuid.Nil
	}
	return *p
}
