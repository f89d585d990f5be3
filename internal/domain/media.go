package domain

import (
	"context"
	"io"
)

// MediaFile is an uploaded file on its way to the media store.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadedMedia struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type MediaStore interface {
	Upload(ctx context.Context, file MediaFile) (*UploadedMedia, error)
	Delete(ctx context.Context, publicID string) error
}
