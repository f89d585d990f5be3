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

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, fullname, avatar, avatar_id, cover_image, cover_image_id, password_hash, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.AvatarID,
		&user.CoverImage,
		&user.CoverImageID,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO users (id, username, email, fullname, avatar, avatar_id, cover_image, cover_image_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.AvatarID,
		user.CoverImage,
		user.CoverImageID,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return translate(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		LIMIT 1
	`
	return scanUser(r.db.QueryRow(ctx, query, username, email))
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, query, args...)
	return translate(err)
}

func (r *UserRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	return r.exec(ctx, `UPDATE users SET fullname = $2, updated_at = NOW() WHERE id = $1`, id, fullName)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, url, publicID string) error {
	return r.exec(ctx, `UPDATE users SET avatar = $2, avatar_id = $3, updated_at = NOW() WHERE id = $1`, id, url, publicID)
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, url, publicID string) error {
	return r.exec(ctx, `UPDATE users SET cover_image = $2, cover_image_id = $3, updated_at = NOW() WHERE id = $1`, id, url, publicID)
}

func (r *UserRepository) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*domain.ChannelProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT u.id, u.username, u.fullname, u.avatar, u.cover_image,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
		FROM users u
		WHERE u.username = $1
	`

	p := &domain.ChannelProfile{}
	err := r.db.QueryRow(ctx, query, username, viewerID).Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.Avatar,
		&p.CoverImage,
		&p.SubscribersCount,
		&p.SubscriptionsCount,
		&p.IsSubscribed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *UserRepository) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	return r.exec(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
	`, userID, videoID)
}

func (r *UserRepository) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + videoSelect + `
		JOIN watch_history h ON h.video_id = v.id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}
