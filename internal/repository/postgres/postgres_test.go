package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidtube/backend/internal/domain"
)

// testPool connects to TEST_DATABASE_URL and applies migrations. Rows are
// keyed by fresh UUIDs and usernames so runs do not collide.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func createUser(t *testing.T, repo *UserRepository) *domain.User {
	t.Helper()
	name := "u" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	user := &domain.User{
		Username:     name,
		Email:        name + "@example.com",
		FullName:     "Test " + name,
		Avatar:       "https://cdn.test/" + name + ".png",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createVideo(t *testing.T, repo *VideoRepository, ownerID uuid.UUID, title string) *domain.Video {
	t.Helper()
	video := &domain.Video{
		OwnerID:     ownerID,
		Title:       title,
		Description: "desc",
		VideoFile:   "https://cdn.test/v.mp4",
		Thumbnail:   "https://cdn.test/t.png",
		Duration:    10,
		IsPublished: true,
	}
	require.NoError(t, repo.Create(context.Background(), video))
	return video
}

func TestUserRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	alice := createUser(t, users)
	dup := *alice
	dup.ID = uuid.Nil
	assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrDuplicate)

	got, err := users.GetByUsernameOrEmail(ctx, "", alice.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	missing, err := users.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, users.UpdateAvatar(ctx, alice.ID, "https://cdn.test/new.png", "new"))
	got, err = users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.AvatarID)
}

func TestRefreshTokenRotation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	alice := createUser(t, NewUserRepository(pool))
	tokens := NewRefreshTokenRepository(pool)

	require.NoError(t, tokens.Store(ctx, alice.ID, "first"))

	ok, err := tokens.Rotate(ctx, alice.ID, "first", "second")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tokens.Rotate(ctx, alice.ID, "first", "third")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tokens.Clear(ctx, alice.ID))
	require.NoError(t, tokens.Clear(ctx, alice.ID))
	ok, err = tokens.Rotate(ctx, alice.ID, "", "fourth")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVideoViewsAndLikes(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	videos := NewVideoRepository(pool)
	likes := NewLikeRepository(pool)

	alice := createUser(t, users)
	bob := createUser(t, users)
	video := createVideo(t, videos, alice.ID, "Integration clip")

	counted, err := videos.RecordView(ctx, video.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, counted)
	counted, err = videos.RecordView(ctx, video.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, counted)

	_, liked, err := likes.Toggle(ctx, bob.ID, domain.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Equal(t, int64(1), got.LikesCount)
	require.NotNil(t, got.Owner)
	assert.Equal(t, alice.Username, got.Owner.Username)

	total, err := likes.CountForOwnerVideos(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, liked, err = likes.Toggle(ctx, bob.ID, domain.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	owner := alice.ID
	found, n, err := videos.Search(ctx, domain.VideoQuery{
		Query: "integration", OwnerID: &owner, PublishedOnly: true,
		SortBy: domain.VideoSortCreatedAt, SortDesc: true, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, found, 1)

	for _, wildcard := range []string{"%", "_", `\`} {
		_, n, err := videos.Search(ctx, domain.VideoQuery{Query: wildcard, OwnerID: &owner, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, n, "query %q", wildcard)
	}

	require.NoError(t, videos.Delete(ctx, video.ID))
	gone, err := videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `100\%`, likeEscaper.Replace("100%"))
	assert.Equal(t, `snake\_case`, likeEscaper.Replace("snake_case"))
	assert.Equal(t, `a\\b`, likeEscaper.Replace(`a\b`))
	assert.Equal(t, "plain", likeEscaper.Replace("plain"))
}

func TestSubscriptionsAndPlaylists(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	videos := NewVideoRepository(pool)
	subs := NewSubscriptionRepository(pool)
	playlists := NewPlaylistRepository(pool)

	alice := createUser(t, users)
	bob := createUser(t, users)

	_, subscribed, err := subs.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)
	profile, err := users.GetChannelProfile(ctx, alice.Username, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)

	video := createVideo(t, videos, alice.ID, "Track")
	playlist := &domain.Playlist{OwnerID: alice.ID, Name: "Mix", IsPrivate: true}
	require.NoError(t, playlists.Create(ctx, playlist))

	added, err := playlists.AddVideo(ctx, playlist.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = playlists.AddVideo(ctx, playlist.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, added)

	public, err := playlists.ListByOwner(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Empty(t, public)

	got, err := playlists.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, video.ID, got.Videos[0].ID)
}
