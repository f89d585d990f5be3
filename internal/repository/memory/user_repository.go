package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.s.users[user.ID] = &stored
	r.s.register(user.ID)
	return nil
}

func (r *UserRepository) find(match func(*domain.User) bool) *domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			out := *u
			return &out
		}
	}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id }), nil
}

func (r *UserRepository) GetByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return (username != "" && u.Username == username) || (email != "" && u.Email == email)
	}), nil
}

func (r *UserRepository) update(id uuid.UUID, apply func(*domain.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		apply(u)
		u.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *UserRepository) UpdateFullName(_ context.Context, id uuid.UUID, fullName string) error {
	return r.update(id, func(u *domain.User) { u.FullName = fullName })
}

func (r *UserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(id, func(u *domain.User) { u.PasswordHash = passwordHash })
}

func (r *UserRepository) UpdateAvatar(_ context.Context, id uuid.UUID, url, publicID string) error {
	return r.update(id, func(u *domain.User) {
		u.Avatar = url
		u.AvatarID = publicID
	})
}

func (r *UserRepository) UpdateCoverImage(_ context.Context, id uuid.UUID, url, publicID string) error {
	return r.update(id, func(u *domain.User) {
		u.CoverImage = url
		u.CoverImageID = publicID
	})
}

func (r *UserRepository) GetChannelProfile(_ context.Context, username string, viewerID uuid.UUID) (*domain.ChannelProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var channel *domain.User
	for _, u := range r.s.users {
		if u.Username == username {
			channel = u
			break
		}
	}
	if channel == nil {
		return nil, nil
	}

	profile := &domain.ChannelProfile{
		ID:         channel.ID,
		Username:   channel.Username,
		FullName:   channel.FullName,
		Avatar:     channel.Avatar,
		CoverImage: channel.CoverImage,
	}
	for _, sub := range r.s.subscriptions {
		if sub.ChannelID == channel.ID {
			profile.SubscribersCount++
			if sub.SubscriberID == viewerID {
				profile.IsSubscribed = true
			}
		}
		if sub.SubscriberID == channel.ID {
			profile.SubscriptionsCount++
		}
	}
	return profile, nil
}

// AddToWatchHistory moves videoID to the front of the user's history.
func (r *UserRepository) AddToWatchHistory(_ context.Context, userID, videoID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entries := r.s.history[userID]
	next := make([]uuid.UUID, 0, len(entries)+1)
	next = append(next, videoID)
	for _, id := range entries {
		if id != videoID {
			next = append(next, id)
		}
	}
	r.s.history[userID] = next
	return nil
}

func (r *UserRepository) GetWatchHistory(_ context.Context, userID uuid.UUID) ([]*domain.Video, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	videos := make([]*domain.Video, 0, len(r.s.history[userID]))
	for _, id := range r.s.history[userID] {
		if v, ok := r.s.videos[id]; ok {
			videos = append(videos, r.s.videoViewLocked(v))
		}
	}
	return videos, nil
}

// RefreshTokenRepository stores the refresh credential on the user record.
type RefreshTokenRepository struct {
	s *Store
}

func NewRefreshTokenRepository(s *Store) *RefreshTokenRepository {
	return &RefreshTokenRepository{s: s}
}

func (r *RefreshTokenRepository) Store(_ context.Context, userID uuid.UUID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		u.RefreshToken = token
	}
	return nil
}

func (r *RefreshTokenRepository) Rotate(_ context.Context, userID uuid.UUID, current, next string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok || current == "" || u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = next
	return true, nil
}

func (r *RefreshTokenRepository) Clear(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		u.RefreshToken = ""
	}
	return nil
}
