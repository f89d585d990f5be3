package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/domain"
)

type TweetRepository struct {
	db *pgxpool.Pool
}

func NewTweetRepository(db *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{db: db}
}

const tweetSelect = `
	t.id, t.owner_id, t.content, t.created_at, t.updated_at,
	u.username, u.fullname, u.avatar,
	(SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id)
	FROM tweets t
	JOIN users u ON u.id = t.owner_id
`

func scanTweet(row pgx.Row) (*domain.Tweet, error) {
	t := &domain.Tweet{}
	owner := &domain.UserSummary{}
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Content,
		&t.CreatedAt,
		&t.UpdatedAt,
		&owner.Username,
		&owner.FullName,
		&owner.Avatar,
		&t.LikesCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	owner.ID = t.OwnerID
	t.Owner = owner
	return t, nil
}

func (r *TweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if tweet.ID == uuid.Nil {
		tweet.ID = uuid.New()
	}
	now := time.Now()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt)
	return err
}

func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tweet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanTweet(r.db.QueryRow(ctx, `SELECT `+tweetSelect+` WHERE t.id = $1`, id))
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Tweet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+tweetSelect+` WHERE t.owner_id = $1 ORDER BY t.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tweets := []*domain.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE tweets SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	return err
}

func (r *TweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	return err
}
