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

type PlaylistRepository struct {
	db *pgxpool.Pool
}

func NewPlaylistRepository(db *pgxpool.Pool) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistColumns = `id, owner_id, name, description, is_private, created_at, updated_at`

func scanPlaylist(row pgx.Row) (*domain.Playlist, error) {
	p := &domain.Playlist{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.IsPrivate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// loadVideos fills Videos for every playlist in one query, in insertion order.
func (r *PlaylistRepository) loadVideos(ctx context.Context, playlists []*domain.Playlist) error {
	if len(playlists) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(playlists))
	byID := make(map[uuid.UUID]*domain.Playlist, len(playlists))
	for i, p := range playlists {
		ids[i] = p.ID
		p.Videos = []*domain.VideoSummary{}
		byID[p.ID] = p
	}

	rows, err := r.db.Query(ctx, `
		SELECT pv.playlist_id, v.id, v.title, v.thumbnail, v.owner_id
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = ANY($1)
		ORDER BY pv.added_at ASC
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var playlistID uuid.UUID
		v := &domain.VideoSummary{}
		if err := rows.Scan(&playlistID, &v.ID, &v.Title, &v.Thumbnail, &v.OwnerID); err != nil {
			return err
		}
		if p, ok := byID[playlistID]; ok {
			p.Videos = append(p.Videos, v)
		}
	}
	return rows.Err()
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	now := time.Now()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []*domain.VideoSummary{}
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO playlists (`+playlistColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description, playlist.IsPrivate, playlist.CreatedAt, playlist.UpdatedAt)
	return err
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanPlaylist(r.db.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
	if err != nil || p == nil {
		return p, err
	}
	if err := r.loadVideos(ctx, []*domain.Playlist{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, includePrivate bool) ([]*domain.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+playlistColumns+` FROM playlists
		WHERE owner_id = $1 AND ($2 OR NOT is_private)
		ORDER BY created_at DESC
	`, ownerID, includePrivate)
	if err != nil {
		return nil, err
	}

	playlists := []*domain.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		playlists = append(playlists, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadVideos(ctx, playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (r *PlaylistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE playlists SET name = $2, description = $3, is_private = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, playlist.ID, playlist.Name, playlist.Description, playlist.IsPrivate).Scan(&playlist.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	return err
}

func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2)
		ON CONFLICT (playlist_id, video_id) DO NOTHING
	`, playlistID, videoID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`, playlistID, videoID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
