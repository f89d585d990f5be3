package mediastore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidtube/backend/internal/domain"
)

type fakeObjects struct {
	puts    []*s3.PutObjectInput
	deletes []string
	putErr  error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestKeyGenerator(t *testing.T) {
	g, err := NewKeyGenerator("/vidtube/")
	require.NoError(t, err)
	g.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	key := g.Key("Clip.MP4", "video/mp4")
	assert.Regexp(t, regexp.MustCompile(`^vidtube/2024/03/09/[A-Za-z0-9_-]{21}\.mp4$`), key)
	assert.NotEqual(t, key, g.Key("Clip.MP4", "video/mp4"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", Extension("avatar.PNG", ""))
	assert.Equal(t, ".jpg", Extension("blob", "image/jpeg"))
	assert.Equal(t, "", Extension("blob", ""))
}

func TestS3StoreUploadAndDelete(t *testing.T) {
	fake := &fakeObjects{}
	store, err := newStore(fake, Config{Bucket: "media", Region: "eu-west-1", PublicBaseURL: "https://cdn.example", KeyPrefix: "v"})
	require.NoError(t, err)

	uploaded, err := store.Upload(context.Background(), domain.MediaFile{
		Name:        "thumb.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)
	require.Len(t, fake.puts, 1)

	put := fake.puts[0]
	assert.Equal(t, "media", aws.ToString(put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(put.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(put.ContentLength))
	assert.Equal(t, aws.ToString(put.Key), uploaded.PublicID)
	assert.Equal(t, "https://cdn.example/"+uploaded.PublicID, uploaded.SecureURL)
	assert.True(t, strings.HasPrefix(uploaded.PublicID, "v/"))

	require.NoError(t, store.Delete(context.Background(), uploaded.PublicID))
	require.NoError(t, store.Delete(context.Background(), ""))
	assert.Equal(t, []string{uploaded.PublicID}, fake.deletes)
}

func TestS3StoreDefaultPublicURL(t *testing.T) {
	store, err := newStore(&fakeObjects{}, Config{Bucket: "media", Region: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.us-east-1.amazonaws.com", store.publicBaseURL)
}

func TestS3StoreUploadError(t *testing.T) {
	store, err := newStore(&fakeObjects{putErr: errors.New("boom")}, Config{Bucket: "media"})
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), domain.MediaFile{Name: "a.png", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
