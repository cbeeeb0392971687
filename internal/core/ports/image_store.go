package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// ImageUpload carries a decoded multipart image on its way to the store.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore persists post images in object storage.
type ImageStore interface {
	Upload(ctx context.Context, img ImageUpload) (domain.PostImage, error)
	Delete(ctx context.Context, fileID string) error
}
