package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/domain"
)

type LikeRepository struct {
	db *pgxpool.Pool
}

func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

func likeColumn(target domain.LikeTarget) (string, error) {
	switch target {
	case domain.LikeTargetVideo:
		return "video_id", nil
	case domain.LikeTargetComment:
		return "comment_id", nil
	case domain.LikeTargetTweet:
		return "tweet_id", nil
	}
	return "", fmt.Errorf("unknown like target %q", target)
}

// Toggle deletes an existing like first; only when nothing was removed does
// it insert. A concurrent duplicate insert is absorbed by the partial unique
// index and still reports liked.
func (r *LikeRepository) Toggle(ctx context.Context, userID uuid.UUID, target domain.LikeTarget, targetID uuid.UUID) (*domain.Like, bool, error) {
	column, err := likeColumn(target)
	if err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE liked_by = $1 AND `+column+` = $2`, userID, targetID)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() > 0 {
		return nil, false, nil
	}

	like := &domain.Like{ID: uuid.New(), LikedBy: userID, CreatedAt: time.Now()}
	ref := targetID
	switch target {
	case domain.LikeTargetVideo:
		like.VideoID = &ref
	case domain.LikeTargetComment:
		like.CommentID = &ref
	case domain.LikeTargetTweet:
		like.TweetID = &ref
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO likes (id, liked_by, video_id, comment_id, tweet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`, like.ID, like.LikedBy, like.VideoID, like.CommentID, like.TweetID, like.CreatedAt)
	if err != nil {
		return nil, false, err
	}
	return like, true, nil
}

func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]*domain.LikedVideo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT l.created_at, v.id, v.title, v.thumbnail, v.owner_id
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		WHERE l.liked_by = $1
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liked := []*domain.LikedVideo{}
	for rows.Next() {
		item := &domain.LikedVideo{Video: &domain.VideoSummary{}}
		if err := rows.Scan(&item.LikedAt, &item.Video.ID, &item.Video.Title, &item.Video.Thumbnail, &item.Video.OwnerID); err != nil {
			return nil, err
		}
		liked = append(liked, item)
	}
	return liked, rows.Err()
}

func (r *LikeRepository) CountForOwnerVideos(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM likes l
		JOIN videos v ON v.id = l.video_id
		WHERE v.owner_id = $1
	`, ownerID).Scan(&n)
	return n, err
}
