package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/Harsh00198/Auraluxe-Music/internal/config"
)

// AssetCacheControl is applied to uploaded artwork. Keys are content
// addressed so they never change in place.
const AssetCacheControl = "public, max-age=31536000, immutable"

// Client stores user-uploaded artwork (playlist covers, avatars).
type Client struct {
	backend      StorageProvider
	bucketAssets string
}

func New(cfg *config.Config) *Client {
	var backend StorageProvider

	if cfg.Storage.Provider == "s3" {
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		if cfg.Storage.Endpoint != "" {
			s3Config.Endpoint = aws.String(cfg.Storage.Endpoint)
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess)
	} else {
		backend = NewLocalProvider(cfg.Storage.LocalPath)
	}

	return NewWithProvider(backend, cfg.Storage.BucketAssets)
}

func NewWithProvider(backend StorageProvider, bucketAssets string) *Client {
	return &Client{backend: backend, bucketAssets: bucketAssets}
}

func (c *Client) UploadAsset(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	return c.backend.Put(ctx, c.bucketAssets, key, body, contentType, AssetCacheControl)
}

func (c *Client) DownloadAsset(ctx context.Context, key string) (*FileObject, error) {
	return c.backend.Get(ctx, c.bucketAssets, key)
}

func (c *Client) DeleteAsset(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, c.bucketAssets, key)
}

func (c *Client) AssetExists(ctx context.Context, key string) (bool, error) {
	return c.backend.Exists(ctx, c.bucketAssets, key)
}

func (c *Client) ListAssets(ctx context.Context, prefix string) ([]string, error) {
	return c.backend.List(ctx, c.bucketAssets, prefix)
}
