package s3

import (
	"context"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// Storage — объектное хранилище превью диаграмм (S3/MinIO).
// Ключи детерминированы (thumbs/<diagram_id>.png), поэтому повторная
// загрузка просто перезаписывает объект.
type Storage struct {
	cl     *minio.Client
	bucket string
	logger *log.Logger
}

func New(ctx context.Context, cfg Config, logger *log.Logger) (*Storage, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &Storage{cl: cl, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ok, err := s.cl.BucketExists(ctx, s.bucket)
	if err != nil {
		s.logger.Printf("ping failed: %v", err)
		return err
	}
	if !ok {
		s.logger.Printf("bucket %q does not exist", s.bucket)
		return minio.ErrorResponse{Code: "NoSuchBucket", BucketName: s.bucket}
	}
	return nil
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	info, err := s.cl.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Printf("PUT %q failed: %v", key, err)
		return err
	}
	s.logger.Printf("PUT %q ok (%d bytes)", key, info.Size)
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, int64, string, error) {
	info, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		s.logger.Printf("STAT %q failed: %v", key, err)
		return nil, 0, "", err
	}

	obj, err := s.cl.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		s.logger.Printf("GET %q failed: %v", key, err)
		return nil, 0, "", err
	}
	s.logger.Printf("GET %q ok (%d bytes)", key, info.Size)
	return obj, info.Size, info.ContentType, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.cl.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Printf("DELETE %q failed: %v", key, err)
		return err
	}
	s.logger.Printf("DELETE %q ok", key)
	return nil
}
