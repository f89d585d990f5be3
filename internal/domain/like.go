package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like references exactly one of a video, a comment or a tweet.
type Like struct {
	ID        uuid.UUID  `json:"id"`
	LikedBy   uuid.UUID  `json:"liked_by"`
	VideoID   *uuid.UUID `json:"video_id,omitempty"`
	CommentID *uuid.UUID `json:"comment_id,omitempty"`
	TweetID   *uuid.UUID `json:"tweet_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type LikedVideo struct {
	LikedAt time.Time     `json:"liked_at"`
	Video   *VideoSummary `json:"video"`
}

type LikeRepository interface {
	// Toggle removes the user's like on the target if present, otherwise
	// creates it. It returns the created like (nil when removed) and whether
	// the target is liked after the call.
	Toggle(ctx context.Context, userID uuid.UUID, target LikeTarget, targetID uuid.UUID) (*Like, bool, error)
	ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]*LikedVideo, error)
	CountForOwnerVideos(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
