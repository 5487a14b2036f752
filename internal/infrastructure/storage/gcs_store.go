package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// GCSStore keeps images in a Google Cloud Storage bucket with public read.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) prefix() string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucket)
}

func (s *GCSStore) Upload(ctx context.Context, folder string, r io.Reader, filename, contentType string) (string, error) {
	objectPath := path.Join(folder, filename)
	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return s.prefix() + objectPath, nil
}

func (s *GCSStore) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(strings.TrimPrefix(url, s.prefix())).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Owns(url string) bool {
	return strings.HasPrefix(url, s.prefix())
}
