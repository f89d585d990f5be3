package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/domain"
)

type VideoRepository struct {
	db *pgxpool.Pool
}

func NewVideoRepository(db *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{db: db}
}

// videoSelect projects a video, its owner summary and its like tally.
const videoSelect = `
	v.id, v.owner_id, v.title, v.description, v.video_file, v.video_file_id,
	v.thumbnail, v.thumbnail_id, v.duration, v.views, v.is_published,
	v.created_at, v.updated_at,
	u.username, u.fullname, u.avatar,
	(SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id)
	FROM videos v
	JOIN users u ON u.id = v.owner_id
`

func scanVideo(row pgx.Row) (*domain.Video, error) {
	v := &domain.Video{}
	owner := &domain.UserSummary{}
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Title,
		&v.Description,
		&v.VideoFile,
		&v.VideoFileID,
		&v.Thumbnail,
		&v.ThumbnailID,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.UpdatedAt,
		&owner.Username,
		&owner.FullName,
		&owner.Avatar,
		&v.LikesCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	owner.ID = v.OwnerID
	v.Owner = owner
	return v, nil
}

func collectVideos(rows pgx.Rows) ([]*domain.Video, error) {
	defer rows.Close()

	videos := []*domain.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO videos (id, owner_id, title, description, video_file, video_file_id, thumbnail, thumbnail_id, duration, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoFile,
		video.VideoFileID,
		video.Thumbnail,
		video.ThumbnailID,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	return err
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanVideo(r.db.QueryRow(ctx, `SELECT `+videoSelect+` WHERE v.id = $1`, id))
}

var videoSortColumns = map[string]string{
	domain.VideoSortCreatedAt: "v.created_at",
	domain.VideoSortViews:     "v.views",
	domain.VideoSortTitle:     "v.title",
	domain.VideoSortDuration:  "v.duration",
}

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *VideoRepository) Search(ctx context.Context, q domain.VideoQuery) ([]*domain.Video, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if q.PublishedOnly {
		where = append(where, "v.is_published")
	}
	if q.OwnerID != nil {
		args = append(args, *q.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}
	if q.Query != "" {
		args = append(args, "%"+likeEscaper.Replace(q.Query)+"%")
		where = append(where, fmt.Sprintf(`v.title ILIKE $%d ESCAPE '\'`, len(args)))
	}
	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos v`+filter, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := videoSortColumns[q.SortBy]
	if !ok {
		column = "v.created_at"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	query := `SELECT ` + videoSelect + filter +
		fmt.Sprintf(" ORDER BY %s %s, v.created_at %s", column, dir, dir)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	args = append(args, q.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	videos, err := collectVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *VideoRepository) Update(ctx context.Context, video *domain.Video) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail = $4, thumbnail_id = $5, is_published = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.Thumbnail,
		video.ThumbnailID,
		video.IsPublished,
	).Scan(&video.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

// Delete relies on ON DELETE CASCADE for comments, likes, viewers, playlist
// entries and watch history. Likes on the video's comments cascade through
// the comments table.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	return err
}

func (r *VideoRepository) RecordView(ctx context.Context, videoID, viewerID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO video_viewers (video_id, viewer_id) VALUES ($1, $2)
		ON CONFLICT (video_id, viewer_id) DO NOTHING
	`, videoID, viewerID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+videoSelect+` WHERE v.owner_id = $1 ORDER BY v.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

func (r *VideoRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

func (r *VideoRepository) SumViewsByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(views), 0)::BIGINT FROM videos WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}
