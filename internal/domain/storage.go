package domain

import (
	"context"
	"io"
)

// Ключ превью диаграммы в объектном хранилище.
func ThumbnailKey(id DiagramID) string { return "thumbs/" + id.String() + ".png" }

// Хранилище бинарного контента (S3/MinIO) — используется для превью диаграмм.
type BlobStorage interface {
	Ping(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (rc io.ReadCloser, size int64, contentType string, err error)
	Delete(ctx context.Context, key string) error
}
