package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullname"`
	Avatar       string    `json:"avatar"`
	AvatarID     string    `json:"-"`
	CoverImage   string    `json:"cover_image,omitempty"`
	CoverImageID string    `json:"-"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy without the password hash and refresh credential.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = ""
	return &c
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// UserSummary is the public projection of a user embedded in other resources.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullname"`
	Avatar   string    `json:"avatar"`
}

type ChannelProfile struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	FullName           string    `json:"fullname"`
	Avatar             string    `json:"avatar"`
	CoverImage         string    `json:"cover_image,omitempty"`
	SubscribersCount   int64     `json:"subscribers_count"`
	SubscriptionsCount int64     `json:"subscriptions_count"`
	IsSubscribed       bool      `json:"is_subscribed"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, url, publicID string) error
	UpdateCoverImage(ctx context.Context, id uuid.UUID, url, publicID string) error
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*ChannelProfile, error)
	AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*Video, error)
}
