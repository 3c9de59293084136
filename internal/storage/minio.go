package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/profilku/profilku/internal/config"
)

// AvatarResolver turns the avatar_url stored on a profile into a URL a browser
// can load. Absolute http(s) URLs pass through; anything else is an object key
// in the avatars bucket and gets a presigned GET URL.
type AvatarResolver struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewAvatarResolver creates the resolver. The bucket is not created or probed;
// with the region configured, presigning needs no network round trip.
func NewAvatarResolver(cfg config.MinIOConfig) (*AvatarResolver, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AvatarResolver{client: mc, bucket: cfg.Bucket, ttl: ttl}, nil
}

// Resolve returns the browser URL for ref. A nil resolver passes every ref through.
func (r *AvatarResolver) Resolve(ctx context.Context, ref string) (string, error) {
	if r == nil || ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}
	key := strings.TrimPrefix(ref, r.bucket+"/")
	presigned, err := r.client.PresignedGetObject(ctx, r.bucket, key, r.ttl, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("presign avatar %s: %w", key, err)
	}
	return presigned.String(), nil
}
